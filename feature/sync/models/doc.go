// Package models holds the types shared by the sync packages: object kinds, field
// descriptors, the gorm models of the link table, the reference value cache and the
// local entity store, and the typed errors of the engine.
package models
