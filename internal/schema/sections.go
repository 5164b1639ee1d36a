package schema

// Section ids.
const (
	Devices     = "devices"
	Accounts    = "accounts"
	Coordinates = "coordinates"
	Messages    = "messages"
	Profiles    = "profiles"
)

// Default returns the registry of every section the dashboard ships with.
func Default() *Registry {
	return NewRegistry().MustRegister(
		Descriptor{
			ID:               Devices,
			Title:            "Device",
			Plural:           "Devices",
			Endpoint:         "/devices",
			PluralKey:        "devices",
			Fields:           []Field{{Name: "device_id", Label: "Device ID"}},
			RequiredFields:   []string{"device_id"},
			DisplayColumns:   []string{"id", "device_id"},
			SearchableFields: []string{"id", "device_id"},
			Grammar:          LineGrammar{Fields: []string{"device_id"}},
		},
		Descriptor{
			ID:        Accounts,
			Title:     "Account Credential",
			Plural:    "Account Credentials",
			Endpoint:  "/accountCredentials",
			PluralKey: "accountCredentials",
			Fields: []Field{
				{Name: "email", Label: "Email"},
				{Name: "password", Label: "Password", Secret: true},
				{Name: "device_id", Label: "Device ID", OptionsFrom: Devices},
				{Name: "coordinate", Label: "Coordinate"},
				{Name: "message", Label: "Message"},
			},
			RequiredFields:   []string{"email", "password"},
			DisplayColumns:   []string{"id", "email", "password", "device_id", "coordinate", "message"},
			SearchableFields: []string{"id", "email", "device_id", "coordinate", "message"},
			Grammar:          LineGrammar{Fields: []string{"email", "password", "device_id"}},
		},
		Descriptor{
			ID:        Coordinates,
			Title:     "Coordinate",
			Plural:    "Coordinates",
			Endpoint:  "/coordinates",
			PluralKey: "coordinates",
			Fields: []Field{
				{Name: "device_id", Label: "Device ID", OptionsFrom: Devices},
				{Name: "coordinate", Label: "Coordinate"},
			},
			RequiredFields:   []string{"coordinate"},
			DisplayColumns:   []string{"id", "device_id", "coordinate"},
			SearchableFields: []string{"id", "device_id", "coordinate"},
			// "lat,lng" carries the delimiter, so a line is one coordinate.
			Grammar: LineGrammar{Fields: []string{"coordinate"}, FreeText: true},
		},
		Descriptor{
			ID:        Messages,
			Title:     "Message",
			Plural:    "Messages",
			Endpoint:  "/messages",
			PluralKey: "messages",
			Fields: []Field{
				{Name: "device_id", Label: "Device ID", OptionsFrom: Devices},
				{Name: "message", Label: "Message"},
			},
			RequiredFields:   []string{"message"},
			DisplayColumns:   []string{"id", "device_id", "message"},
			SearchableFields: []string{"id", "device_id", "message"},
			Grammar:          LineGrammar{Fields: []string{"message"}, FreeText: true},
		},
		Descriptor{
			ID:        Profiles,
			Title:     "Profile Association",
			Plural:    "Profile Associations",
			Endpoint:  "/profileAssociations",
			PluralKey: "profileAssociations",
			Fields: []Field{
				{Name: "email", Label: "Email"},
				{Name: "profile", Label: "Profile"},
				{Name: "device_id", Label: "Device ID", OptionsFrom: Devices},
			},
			RequiredFields:   []string{"email", "profile"},
			DisplayColumns:   []string{"id", "email", "profile", "device_id"},
			SearchableFields: []string{"id", "email", "profile", "device_id"},
			Grammar:          LineGrammar{Fields: []string{"email", "profile"}},
		},
	)
}
