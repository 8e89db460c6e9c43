package models_test

import (
	"errors"
	"testing"

	"crm-sync/core/remote"
	"crm-sync/feature/sync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Kind
		wantErr bool
	}{
		{"contact", models.KindContact, false},
		{" Company ", models.KindCompany, false},
		{"lead", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseKind(tt.in)
			if tt.wantErr {
				var uk *models.UnsupportedKindError
				assert.True(t, errors.As(err, &uk))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_Remote(t *testing.T) {
	assert.Equal(t, remote.TypeContact, models.KindContact.RecordType())
	assert.Equal(t, remote.TypeCustomer, models.KindCompany.RecordType())
	assert.Equal(t, "email", models.KindContact.NaturalKey())
	assert.Equal(t, "companyName", models.KindCompany.NaturalKey())

	def := remote.CustomFieldDef{AppliesToContact: true}
	assert.True(t, models.KindContact.AppliesTo(def))
	assert.False(t, models.KindCompany.AppliesTo(def))
}

func TestErrors_Unwrap(t *testing.T) {
	cause := &remote.StatusError{Code: "X", Message: "y"}

	var se *remote.StatusError
	assert.True(t, errors.As(&models.SchemaError{Kind: models.KindContact, Err: cause}, &se))
	assert.True(t, errors.As(&models.RemoteQueryError{Op: "search", Err: cause}, &se))
	assert.True(t, errors.As(&models.RemoteWriteError{Op: "add", Batch: 2, Err: cause}, &se))

	err := &models.RemoteWriteError{Op: "add", Batch: 2, Err: cause}
	assert.Equal(t, "remote add batch 2 failed: remote API error: X - y", err.Error())
}
