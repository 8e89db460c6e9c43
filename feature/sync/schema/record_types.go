package schema

// wellKnownRecordTypes maps the negative ids of built-in record types to their names.
var wellKnownRecordTypes = map[int]string{
	-112: "account",
	-105: "accountingperiod",
	-242: "bin",
	-22:  "phonecall",
	-24:  "campaign",
	-23:  "supportcase",
	-101: "classification",
	-108: "competitor",
	-6:   "contact",
	-2:   "customer",
	-109: "customercategory",
	-102: "department",
	-120: "emailtemplate",
	-4:   "employee",
	-111: "employeetype",
	-104: "customerstatus",
	-20:  "calendarevent",
	-26:  "issue",
	-10:  "item",
	-7:   "job",
	-103: "location",
	-31:  "opportunity",
	-5:   "partner",
	-115: "issueproduct",
	-113: "issueproductversion",
	-118: "role",
	-117: "subsidiary",
	-21:  "task",
	-30:  "transaction",
	-3:   "vendor",
	-110: "vendorcategory",
}
