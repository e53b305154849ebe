package pluginconfig

// Document is the YAML layout of the plugin settings file.
type Document struct {
	Port    int     `yaml:"port"`
	AuthKey string  `yaml:"authKey"`
	Report  *Report `yaml:"report,omitempty"`
}

// Report enables pushing messages and events to external destinations.
type Report struct {
	Enable        bool     `yaml:"enable"`
	GroupMessage  Toggle   `yaml:"groupMessage"`
	FriendMessage Toggle   `yaml:"friendMessage"`
	TempMessage   Toggle   `yaml:"tempMessage"`
	EventMessage  Toggle   `yaml:"eventMessage"`
	Destinations  []string `yaml:"destinations"`
}

// Toggle switches reporting for one category.
type Toggle struct {
	Report bool `yaml:"report"`
}

// Build converts settings into the document written to disk.
func Build(settings *Settings) *Document {
	doc := &Document{
		Port:    settings.Port,
		AuthKey: settings.AuthKey,
	}

	if settings.UseReport {
		on := Toggle{Report: true}
		doc.Report = &Report{
			Enable:        true,
			GroupMessage:  on,
			FriendMessage: on,
			TempMessage:   on,
			EventMessage:  on,
			Destinations:  []string{settings.ReportURL},
		}
	}

	return doc
}
