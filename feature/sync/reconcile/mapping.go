package reconcile

import (
	"sort"

	"crm-sync/core/config"
	"crm-sync/feature/sync/models"
)

// fieldMap links local field names to remote field ids for one kind.
type fieldMap struct {
	toRemote   map[string]string
	toLocal    map[string]string
	remoteWins map[string]struct{}
}

// newFieldMap builds the field map of a kind. Without a configured mapping
// every remote field maps to a local field of the same name. Mapped remote
// ids missing from fields are dropped.
func newFieldMap(km config.KindMapping, configured bool, fields models.FieldSet) fieldMap {
	fm := fieldMap{
		toRemote:   map[string]string{},
		toLocal:    map[string]string{},
		remoteWins: map[string]struct{}{},
	}
	if configured {
		for local, remoteID := range km.Fields {
			if _, ok := fields[remoteID]; !ok {
				continue
			}
			fm.toRemote[local] = remoteID
			fm.toLocal[remoteID] = local
		}
	} else {
		for id := range fields {
			fm.toRemote[id] = id
			fm.toLocal[id] = id
		}
	}
	for _, id := range km.RemoteWins {
		fm.remoteWins[id] = struct{}{}
	}
	return fm
}

// localFields returns the mapped local field names, sorted.
func (m fieldMap) localFields() []string {
	out := make([]string, 0, len(m.toRemote))
	for local := range m.toRemote {
		out = append(out, local)
	}
	sort.Strings(out)
	return out
}

// remoteWinsLocal reports whether the remote value of a local field is authoritative.
func (m fieldMap) remoteWinsLocal(local string) bool {
	_, ok := m.remoteWins[m.toRemote[local]]
	return ok
}

// LocalKeyField returns the local field holding the natural key of a kind.
func LocalKeyField(mapping config.Mapping, kind models.Kind) string {
	remoteKey := kind.NaturalKey()
	km, ok := mapping.For(string(kind))
	if !ok {
		return remoteKey
	}
	locals := make([]string, 0, 1)
	for local, remoteID := range km.Fields {
		if remoteID == remoteKey {
			locals = append(locals, local)
		}
	}
	if len(locals) == 0 {
		return remoteKey
	}
	sort.Strings(locals)
	return locals[0]
}
