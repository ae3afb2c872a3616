package config

// Theme holds the colors used when rendering boards in the terminal
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent       string `yaml:"accent"`
	ColumnBorder string `yaml:"column_border"`
	CardBorder   string `yaml:"card_border"`
	Title        string `yaml:"title"`
	Subtle       string `yaml:"subtle"` // muted text such as positions
	Normal       string `yaml:"normal"`
	Error        string `yaml:"error"`
}

// DefaultTheme returns the default color scheme (purple theme)
func DefaultTheme() Theme {
	return Theme{
		Preset:       "default",
		Accent:       "#874BFD",
		ColumnBorder: "#5F87D7",
		CardBorder:   "#585858",
		Title:        "#D75FD7",
		Subtle:       "#585858",
		Normal:       "#D0D0D0",
		Error:        "#FF0000",
	}
}

// MonochromeTheme returns a black and white color scheme
func MonochromeTheme() Theme {
	return Theme{
		Preset:       "monochrome",
		Accent:       "#FFFFFF",
		ColumnBorder: "#FFFFFF",
		CardBorder:   "#808080",
		Title:        "#FFFFFF",
		Subtle:       "#808080",
		Normal:       "#FFFFFF",
		Error:        "#FFFFFF",
	}
}

// ApplyDefaults fills in missing color values from the preset
func (t *Theme) ApplyDefaults() {
	preset := DefaultTheme()
	if t.Preset == "monochrome" {
		preset = MonochromeTheme()
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&t.Preset, preset.Preset)
	fill(&t.Accent, preset.Accent)
	fill(&t.ColumnBorder, preset.ColumnBorder)
	fill(&t.CardBorder, preset.CardBorder)
	fill(&t.Title, preset.Title)
	fill(&t.Subtle, preset.Subtle)
	fill(&t.Normal, preset.Normal)
	fill(&t.Error, preset.Error)
}
