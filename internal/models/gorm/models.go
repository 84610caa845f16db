package gorm

// All lists every model, in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Aircraft{},
		&Multiplier{},
		&Rank{},
		&RankAircraft{},
		&Pilot{},
		&PilotRole{},
		&Pirep{},
		&PirepEvent{},
	}
}
