package types

// ThemeColor customizes the palette of the web app.
type ThemeColor struct {
	PrimaryBrandyStart           string `json:"primaryBrandyStart" yaml:"primaryBrandyStart" toml:"primaryBrandyStart"`
	PrimaryBrandyEnd             string `json:"primaryBrandyEnd" yaml:"primaryBrandyEnd" toml:"primaryBrandyEnd"`
	PrimaryText                  string `json:"primaryText" yaml:"primaryText" toml:"primaryText"`
	SecondaryActive              string `json:"secondaryActive" yaml:"secondaryActive" toml:"secondaryActive"`
	SecondaryDisable             string `json:"secondaryDisable" yaml:"secondaryDisable" toml:"secondaryDisable"`
	SecondaryText                string `json:"secondaryText" yaml:"secondaryText" toml:"secondaryText"`
	SecondaryComponentBackground string `json:"secondaryComponentBackground" yaml:"secondaryComponentBackground" toml:"secondaryComponentBackground"`
	SecondaryBackground          string `json:"secondaryBackground" yaml:"secondaryBackground" toml:"secondaryBackground"`
	PrimaryButtonTextColor       string `json:"primaryButtonTextColor" yaml:"primaryButtonTextColor" toml:"primaryButtonTextColor"`
	PrimaryButtonBrandyStart     string `json:"primaryButtonBrandyStart" yaml:"primaryButtonBrandyStart" toml:"primaryButtonBrandyStart"`
	PrimaryButtonBrandyEnd       string `json:"primaryButtonBrandyEnd" yaml:"primaryButtonBrandyEnd" toml:"primaryButtonBrandyEnd"`
	PrimaryIconColor             string `json:"primaryIconColor" yaml:"primaryIconColor" toml:"primaryIconColor"`
}

// ThemeFont customizes typography of the web app.
type ThemeFont struct {
	PrimaryFontFamily          string `json:"primaryFontFamily" yaml:"primaryFontFamily" toml:"primaryFontFamily"`
	SecondaryFontFamily        string `json:"secondaryFontFamily" yaml:"secondaryFontFamily" toml:"secondaryFontFamily"`
	BigTitleFontSize           int    `json:"bigTitleFontSize" yaml:"bigTitleFontSize" toml:"bigTitleFontSize"`
	BigTitleFontLineHeight     int    `json:"bigTitleFontLineHeight" yaml:"bigTitleFontLineHeight" toml:"bigTitleFontLineHeight"`
	ModelTitleFontSize         int    `json:"modelTitleFontSize" yaml:"modelTitleFontSize" toml:"modelTitleFontSize"`
	ModelTitleFontLineHeight   int    `json:"modelTitleFontLineHeight" yaml:"modelTitleFontLineHeight" toml:"modelTitleFontLineHeight"`
	SectionTitleFontSize       int    `json:"sectionTitleFontSize" yaml:"sectionTitleFontSize" toml:"sectionTitleFontSize"`
	SectionTitleFontLineHeight int    `json:"sectionTitleFontLineHeight" yaml:"sectionTitleFontLineHeight" toml:"sectionTitleFontLineHeight"`
	BigFontSize                int    `json:"bigFontSize" yaml:"bigFontSize" toml:"bigFontSize"`
	BigFontLineHeight          int    `json:"bigFontLineHeight" yaml:"bigFontLineHeight" toml:"bigFontLineHeight"`
	NormalFontSize             int    `json:"normalFontSize" yaml:"normalFontSize" toml:"normalFontSize"`
	NormalFontLineHeight       int    `json:"normalFontLineHeight" yaml:"normalFontLineHeight" toml:"normalFontLineHeight"`
	SmallFontSize              int    `json:"smallFontSize" yaml:"smallFontSize" toml:"smallFontSize"`
	SmallFontLineHeight        int    `json:"smallFontLineHeight" yaml:"smallFontLineHeight" toml:"smallFontLineHeight"`
	BoldFontSize               int    `json:"boldFontSize" yaml:"boldFontSize" toml:"boldFontSize"`
	BoldFontLineHeight         int    `json:"boldFontLineHeight" yaml:"boldFontLineHeight" toml:"boldFontLineHeight"`
}

// Theme is the full look-and-feel forwarded to offer and BNPL pages.
type Theme struct {
	Color            ThemeColor `json:"color" yaml:"color" toml:"color"`
	Font             ThemeFont  `json:"font" yaml:"font" toml:"font"`
	InputFieldRadius float64    `json:"inputFieldRadius" yaml:"inputFieldRadius" toml:"inputFieldRadius"`
	PageHeaderRadius float64    `json:"pageHeaderRadius" yaml:"pageHeaderRadius" toml:"pageHeaderRadius"`
	ModelRadius      float64    `json:"modelRadius" yaml:"modelRadius" toml:"modelRadius"`
	ButtonRadius     float64    `json:"buttonRadius" yaml:"buttonRadius" toml:"buttonRadius"`
	BoxShadow        string     `json:"boxShadow" yaml:"boxShadow" toml:"boxShadow"`
}

// DefaultThemeColor is the brand palette. Profile and service-instance pages
// always use it.
func DefaultThemeColor() ThemeColor {
	return ThemeColor{
		PrimaryBrandyStart:           "#AB2185",
		PrimaryBrandyEnd:             "#5A24B3",
		PrimaryText:                  "#333333",
		SecondaryActive:              "#9147D7",
		SecondaryDisable:             "#E0E0E0",
		SecondaryText:                "#999999",
		SecondaryComponentBackground: "#FFFFFF",
		SecondaryBackground:          "#FFFFFF",
		PrimaryButtonTextColor:       "#FFFFFF",
		PrimaryButtonBrandyStart:     "#AB2185",
		PrimaryButtonBrandyEnd:       "#5A24B3",
		PrimaryIconColor:             "#FFFFFF",
	}
}

// DefaultThemeFont returns the stock typography.
func DefaultThemeFont() ThemeFont {
	return ThemeFont{
		PrimaryFontFamily:          "Roboto",
		SecondaryFontFamily:        "Roboto",
		BigTitleFontSize:           21,
		BigTitleFontLineHeight:     31,
		ModelTitleFontSize:         20,
		ModelTitleFontLineHeight:   29,
		SectionTitleFontSize:       16,
		SectionTitleFontLineHeight: 21,
		BigFontSize:                18,
		BigFontLineHeight:          26,
		NormalFontSize:             14,
		NormalFontLineHeight:       18,
		SmallFontSize:              13,
		SmallFontLineHeight:        20,
		BoldFontSize:               15,
		BoldFontLineHeight:         21,
	}
}

// DefaultTheme returns the stock theme.
func DefaultTheme() Theme {
	return Theme{
		Color:            DefaultThemeColor(),
		Font:             DefaultThemeFont(),
		InputFieldRadius: 5,
		PageHeaderRadius: 30,
		ModelRadius:      10,
		ButtonRadius:     50,
		BoxShadow:        "0px 4px 30px rgba(0, 0, 0, 0.1)",
	}
}
