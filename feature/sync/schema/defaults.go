package schema

import "crm-sync/feature/sync/models"

func field(id, label string, typ models.FieldType) models.FieldDescriptor {
	return models.FieldDescriptor{ID: id, Label: label, Type: typ, Source: models.SourceDefault}
}

func required(f models.FieldDescriptor) models.FieldDescriptor {
	f.Required = true
	return f
}

func reference(id, label, target string) models.FieldDescriptor {
	f := field(id, label, models.FieldReference)
	f.ReferenceTarget = target
	return f
}

func address(property, label string, typ models.FieldType) models.FieldDescriptor {
	return models.FieldDescriptor{
		ID:              "address_" + property,
		Label:           label,
		Type:            typ,
		AddressProperty: property,
		Source:          models.SourceAddress,
	}
}

var addressFields = []models.FieldDescriptor{
	address("country", "Country", models.FieldCountry),
	address("attention", "Attention", models.FieldString),
	address("addressee", "Addressee", models.FieldString),
	address("addrPhone", "Address Phone", models.FieldString),
	address("addr1", "Address 1", models.FieldString),
	address("addr2", "Address 2", models.FieldString),
	address("addr3", "Address 3", models.FieldString),
	address("city", "City", models.FieldString),
	address("state", "State", models.FieldState),
	address("zip", "Zip", models.FieldString),
}

var companyFields = []models.FieldDescriptor{
	field("accountNumber", "Account Number", models.FieldString),
	field("category", "Category", models.FieldString),
	field("comments", "Comments", models.FieldString),
	required(field("companyName", "Company Name", models.FieldString)),
	field("currency", "Currency", models.FieldString),
	field("email", "Email", models.FieldString),
	field("emailPreference", "Email Preference", models.FieldString),
	field("fax", "Fax", models.FieldString),
	field("firstName", "First Name", models.FieldString),
	field("firstVisit", "First Visit", models.FieldDateTime),
	field("homePhone", "Home Phone", models.FieldString),
	field("keywords", "Keywords", models.FieldString),
	field("language", "Language", models.FieldString),
	field("lastName", "Last Name", models.FieldString),
	field("leadSource", "Lead Source", models.FieldString),
	field("middleName", "Middle Name", models.FieldString),
	field("mobilePhone", "Mobile Phone", models.FieldString),
	field("phone", "Phone", models.FieldString),
	field("salutation", "Salutation", models.FieldString),
	field("startDate", "Start Date", models.FieldDate),
	field("territory", "Territory", models.FieldString),
	field("title", "Title", models.FieldString),
	field("url", "URL", models.FieldString),
	field("visits", "Visits", models.FieldNumber),
	field("entityStatus", "Status", models.FieldString),
}

var contactFields = []models.FieldDescriptor{
	field("comments", "Comments", models.FieldString),
	reference("company", "Company", "customer"),
	field("contactSource", "Contact Source", models.FieldString),
	field("dateCreated", "Date Created", models.FieldDateTime),
	required(field("email", "Email", models.FieldString)),
	field("fax", "Fax", models.FieldString),
	required(field("firstName", "First Name", models.FieldString)),
	field("homePhone", "Home Phone", models.FieldString),
	required(field("lastName", "Last Name", models.FieldString)),
	field("middleName", "Middle Name", models.FieldString),
	field("mobilePhone", "Mobile Phone", models.FieldString),
	field("officePhone", "Office Phone", models.FieldString),
	field("phone", "Phone", models.FieldString),
	field("salutation", "Salutation", models.FieldString),
	field("title", "Title", models.FieldString),
}

// DefaultFields returns the built-in fields of a kind, address fields included.
func DefaultFields(kind models.Kind) models.FieldSet {
	base := contactFields
	if kind == models.KindCompany {
		base = companyFields
	}
	out := make(models.FieldSet, len(base)+len(addressFields))
	for _, f := range base {
		out[f.ID] = f
	}
	for _, f := range addressFields {
		out[f.ID] = f
	}
	return out
}

// CustomFieldType maps a remote custom field type to a local field type.
func CustomFieldType(remoteType string) models.FieldType {
	switch remoteType {
	case "_checkBox":
		return models.FieldBoolean
	case "_currency", "_decimalNumber", "_integerNumber":
		return models.FieldNumber
	case "_date":
		return models.FieldDate
	case "_datetime":
		return models.FieldDateTime
	default:
		return models.FieldString
	}
}
