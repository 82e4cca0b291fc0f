package articlescmd

// FeatureGates exposes runtime toggles read by the handlers. Nil closures
// count as enabled.
type FeatureGates struct {
	MigrationEnabled    func() bool
	LegacyImportEnabled func() bool
}

func (g FeatureGates) migrationEnabled() bool {
	if g.MigrationEnabled == nil {
		return true
	}
	return g.MigrationEnabled()
}

func (g FeatureGates) legacyImportEnabled() bool {
	if g.LegacyImportEnabled == nil {
		return true
	}
	return g.LegacyImportEnabled()
}
