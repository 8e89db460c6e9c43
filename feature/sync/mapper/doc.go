// Package mapper converts between remote records and flat field maps.
//
// Each field descriptor says where its value lives: a direct property, the default address,
// or the custom field list. Values go through the codec in both directions. Contacts carry
// the name and remote id of their company inline, read once per company per mapper.
package mapper
