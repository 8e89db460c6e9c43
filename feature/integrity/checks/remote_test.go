package checks

import (
	"context"
	"testing"

	"crm-sync/core/remote"
	"crm-sync/core/remote/sandbox"

	"github.com/stretchr/testify/assert"
)

func TestCheckRemote(t *testing.T) {
	sb := sandbox.New()
	sb.AddCustomField(remote.CustomFieldDef{ScriptID: "custentity_vip", AppliesToContact: true})

	report := CheckRemote(context.Background(), sb)
	assert.True(t, report.Reachable)
	assert.Equal(t, 1, report.CustomFields)

	sb.FailNext("GetCustomFieldIDs", remote.Failure("INVALID_LOGIN", "bad credentials"))
	report = CheckRemote(context.Background(), sb)
	assert.False(t, report.Reachable)
	assert.Contains(t, report.Error, "INVALID_LOGIN")
}
