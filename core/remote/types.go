package remote

import "time"

// Record types understood by the sync engine.
const (
	TypeContact           = "contact"
	TypeCustomer          = "customer"
	TypeCustomRecordType  = "customRecordType"
	TypeEntityCustomField = "entityCustomField"
)

// Wire layouts for date values.
const (
	DateTimeLayout = "2006-01-02T15:04:05.000-07:00"
	DateLayout     = "2006-01-02"
)

// Search operators for date filters.
const (
	OperatorWithin     = "within"
	OperatorOnOrAfter  = "onOrAfter"
	OperatorOnOrBefore = "onOrBefore"
)

// CustomFieldKind selects the wrapper a custom field value is sent in.
type CustomFieldKind string

const (
	CustomBoolean CustomFieldKind = "boolean"
	CustomDate    CustomFieldKind = "date"
	CustomLong    CustomFieldKind = "long"
	CustomString  CustomFieldKind = "string"
	CustomSelect  CustomFieldKind = "select"
)

// RecordRef points at another remote record by id, with an optional display name.
type RecordRef struct {
	InternalID string `json:"internalId"`
	ExternalID string `json:"externalId,omitempty"`
	Type       string `json:"type,omitempty"`
	TypeID     string `json:"typeId,omitempty"`
	ScriptID   string `json:"scriptId,omitempty"`
	Name       string `json:"name,omitempty"`
}

// CustomFieldRef is one entry of a record's custom field list.
type CustomFieldRef struct {
	ScriptID string          `json:"scriptId"`
	Kind     CustomFieldKind `json:"kind"`
	Value    any             `json:"value"`
}

// Address is the address sub-object of a record, keyed by property name.
type Address map[string]any

// Get returns an address property.
func (a Address) Get(property string) (any, bool) {
	v, ok := a[property]
	return v, ok
}

// Set assigns an address property.
func (a Address) Set(property string, value any) {
	a[property] = value
}

// Record is a remote contact or customer.
type Record struct {
	Type         string           `json:"type"`
	InternalID   string           `json:"internalId,omitempty"`
	ExternalID   string           `json:"externalId,omitempty"`
	LastModified time.Time        `json:"lastModifiedDate"`
	Fields       map[string]any   `json:"fields,omitempty"`
	CustomFields []CustomFieldRef `json:"customFields,omitempty"`
	Addressbook  []Address        `json:"addressbook,omitempty"`
}

// NewRecord creates an empty record of the given type.
func NewRecord(recordType string) *Record {
	return &Record{Type: recordType, Fields: map[string]any{}}
}

// Property returns a direct property of the record.
func (r *Record) Property(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// SetProperty assigns a direct property.
func (r *Record) SetProperty(name string, value any) {
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}
	r.Fields[name] = value
}

// CustomField returns the first custom field entry with the given script id.
func (r *Record) CustomField(scriptID string) (CustomFieldRef, bool) {
	for _, cf := range r.CustomFields {
		if cf.ScriptID == scriptID {
			return cf, true
		}
	}
	return CustomFieldRef{}, false
}

// AppendCustomField appends an entry to the custom field list.
func (r *Record) AppendCustomField(ref CustomFieldRef) {
	r.CustomFields = append(r.CustomFields, ref)
}

// DefaultAddress returns the first address. When none exists it is created
// if create is set, otherwise nil is returned.
func (r *Record) DefaultAddress(create bool) Address {
	if len(r.Addressbook) > 0 {
		return r.Addressbook[0]
	}
	if !create {
		return nil
	}
	r.Addressbook = []Address{{}}
	return r.Addressbook[0]
}

// Clone returns a deep enough copy for independent mutation of fields,
// custom fields and addresses.
func (r *Record) Clone() *Record {
	out := *r
	out.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	out.CustomFields = append([]CustomFieldRef(nil), r.CustomFields...)
	out.Addressbook = nil
	for _, a := range r.Addressbook {
		cp := make(Address, len(a))
		for k, v := range a {
			cp[k] = v
		}
		out.Addressbook = append(out.Addressbook, cp)
	}
	return &out
}

// CustomFieldDef describes a custom field defined on the remote side.
type CustomFieldDef struct {
	InternalID        string     `json:"internalId"`
	ScriptID          string     `json:"scriptId"`
	Label             string     `json:"label"`
	Mandatory         bool       `json:"isMandatory"`
	IsFormula         bool       `json:"isFormula"`
	AppliesToContact  bool       `json:"appliesToContact"`
	AppliesToCustomer bool       `json:"appliesToCustomer"`
	FieldType         string     `json:"fieldType"`
	SelectRecordType  *RecordRef `json:"selectRecordType,omitempty"`
}

// CustomRecordType is a user defined record type.
type CustomRecordType struct {
	InternalID string `json:"internalId"`
	ScriptID   string `json:"scriptId"`
	Name       string `json:"name"`
}

// ReadResult is the response of a single get.
type ReadResult struct {
	Status      Status
	Record      *Record
	CustomField *CustomFieldDef
	RecordType  *CustomRecordType
}

// CustomizationIDResult lists the custom field references of the account.
type CustomizationIDResult struct {
	Status Status
	Refs   []RecordRef
}

// DateFilter narrows a search by last modified date. Values use DateTimeLayout.
type DateFilter struct {
	Operator     string
	SearchValue  string
	SearchValue2 string
}

// SearchRequest is a basic search on one record type.
type SearchRequest struct {
	RecordType   string
	PageSize     int
	LastModified *DateFilter
	// Field and Value add a string "is" filter when Field is set.
	Field string
	Value string
}

// SearchResult is one page of a search.
type SearchResult struct {
	Status       Status
	Records      []*Record
	SearchID     string
	PageIndex    int
	TotalPages   int
	TotalRecords int
}

// WriteResponse is the outcome for one record of a bulk write.
type WriteResponse struct {
	Status Status
	Ref    RecordRef
}

// WriteListResult is the response of a bulk add or update.
type WriteListResult struct {
	Status    Status
	Responses []WriteResponse
}
