// Package entity defines the domain models for the theme feature.
package entity

// プリセットテーマ名です。
const (
	NameLight  = "light"
	NameDark   = "dark"
	NameBlue   = "blue"
	NameCustom = "custom"
)

// Theme はダッシュボードとチャートの配色を表します。
// toml タグはテーマファイルの [theme] テーブルのキーに対応します。
type Theme struct {
	Name                     string `toml:"name" json:"name"`
	Base                     string `toml:"base" json:"base"`
	PrimaryColor             string `toml:"primaryColor" json:"primary_color"`
	BackgroundColor          string `toml:"backgroundColor" json:"background_color"`
	SecondaryBackgroundColor string `toml:"secondaryBackgroundColor" json:"secondary_background_color"`
	TextColor                string `toml:"textColor" json:"text_color"`
	ChartBackground          string `toml:"chartBackground" json:"chart_background"`
	FontColor                string `toml:"fontColor" json:"font_color"`
}

var presets = map[string]Theme{
	NameLight: {
		Name:                     NameLight,
		Base:                     "light",
		PrimaryColor:             "#FF4B4B",
		BackgroundColor:          "#FFFFFF",
		SecondaryBackgroundColor: "#F0F2F6",
		TextColor:                "#000000",
		ChartBackground:          "#FFFFFF",
		FontColor:                "#000000",
	},
	NameDark: {
		Name:                     NameDark,
		Base:                     "dark",
		PrimaryColor:             "#FF4B4B",
		BackgroundColor:          "#0E1117",
		SecondaryBackgroundColor: "#262730",
		TextColor:                "#FFFFFF",
		ChartBackground:          "#111111",
		FontColor:                "#FFFFFF",
	},
	NameBlue: {
		Name:                     NameBlue,
		Base:                     "dark",
		PrimaryColor:             "#FFFFFF",
		BackgroundColor:          "#007BFF",
		SecondaryBackgroundColor: "#0056B3",
		TextColor:                "#FFFFFF",
		ChartBackground:          "#0056B3",
		FontColor:                "#FFFFFF",
	},
}

// Preset は名前に対応するプリセットテーマを返します。
func Preset(name string) (Theme, bool) {
	t, ok := presets[name]
	return t, ok
}

// Default はテーマが決まらない場合に使う light テーマです。
func Default() Theme {
	return presets[NameLight]
}

// PresetNames は選択可能なプリセット名を表示順で返します。
func PresetNames() []string {
	return []string{NameLight, NameDark, NameBlue}
}
