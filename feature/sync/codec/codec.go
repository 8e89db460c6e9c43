package codec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm-sync/core/remote"
	"crm-sync/core/utils"
	"crm-sync/feature/sync/models"
)

// LocalLayout is how date values are rendered locally.
const LocalLayout = "2006-01-02 15:04:05"

var localLayouts = []string{LocalLayout, remote.DateTimeLayout, time.RFC3339, remote.DateLayout}

var wireLayouts = []string{remote.DateTimeLayout, time.RFC3339, LocalLayout, remote.DateLayout}

// References translates reference values.
type References interface {
	ToLocal(ctx context.Context, value any, fieldID string) (any, error)
	ToRemote(ctx context.Context, fieldID string, value any, target string) (remote.RecordRef, error)
}

// Codec transcodes field values between local and wire representations.
type Codec struct {
	refs       References
	remoteZone *time.Location
	localZone  *time.Location
}

// New creates a codec. Dates go on the wire in remoteZone and are rendered locally in localZone.
func New(refs References, remoteZone, localZone *time.Location) *Codec {
	if remoteZone == nil {
		remoteZone = time.UTC
	}
	if localZone == nil {
		localZone = time.UTC
	}
	return &Codec{refs: refs, remoteZone: remoteZone, localZone: localZone}
}

// Encode converts a local value into its wire form. Reference fields return
// models.ErrReferenceNotFound when the label is unknown remotely.
func (c *Codec) Encode(ctx context.Context, value any, f models.FieldDescriptor) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch f.Type {
	case models.FieldReference:
		return c.refs.ToRemote(ctx, f.ID, value, f.ReferenceTarget)
	case models.FieldDate, models.FieldDateTime:
		return c.encodeDate(value, f)
	case models.FieldCountry:
		return CountryCode(utils.ToString(value)), nil
	case models.FieldState:
		if utils.IsEmpty(value) {
			return "", nil
		}
		return StateCode(utils.ToString(value)), nil
	case models.FieldBoolean:
		return utils.ToBool(value), nil
	case models.FieldNumber:
		if s, ok := value.(string); ok {
			if utils.IsEmpty(s) {
				return nil, nil
			}
			if n, ok := utils.ToFloat(s); ok {
				return n, nil
			}
			return nil, fmt.Errorf("invalid number %q for field %s", s, f.ID)
		}
		return value, nil
	default:
		return value, nil
	}
}

func (c *Codec) encodeDate(value any, f models.FieldDescriptor) (any, error) {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	default:
		s := strings.TrimSpace(utils.ToString(v))
		if s == "" {
			return "", nil
		}
		parsed, ok := parseIn(s, localLayouts, c.localZone)
		if !ok {
			return nil, fmt.Errorf("invalid date %q for field %s", s, f.ID)
		}
		t = parsed
	}
	if f.Type == models.FieldDate {
		return t.Format(remote.DateLayout), nil
	}
	return t.In(c.remoteZone).Truncate(time.Second).Format(remote.DateTimeLayout), nil
}

// Decode converts a wire value into its local form.
func (c *Codec) Decode(ctx context.Context, value any, f models.FieldDescriptor) (any, error) {
	if value == nil {
		return "", nil
	}
	if f.Type == models.FieldReference {
		return c.refs.ToLocal(ctx, value, f.ID)
	}
	if ref, ok := value.(remote.RecordRef); ok {
		value = ref.InternalID
	}

	switch f.Type {
	case models.FieldDate, models.FieldDateTime:
		return c.decodeDate(value, f.Type == models.FieldDate), nil
	case models.FieldCountry:
		return CountryName(utils.ToString(value)), nil
	case models.FieldState:
		return StateName(utils.ToString(value)), nil
	default:
		return value, nil
	}
}

// decodeDate renders a wire date locally. Date-only values keep their calendar
// day and are not shifted across zones.
func (c *Codec) decodeDate(value any, dateOnly bool) any {
	t, ok := value.(time.Time)
	if !ok {
		s := strings.TrimSpace(utils.ToString(value))
		if s == "" {
			return ""
		}
		if t, ok = parseIn(s, wireLayouts, c.remoteZone); !ok {
			return value
		}
	}
	if dateOnly {
		return t.Format(remote.DateLayout) + " 00:00:00"
	}
	return t.In(c.localZone).Format(LocalLayout)
}

func parseIn(s string, layouts []string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
