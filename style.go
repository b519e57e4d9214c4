package overlay

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spacing scale used by the default layout.
const (
	SpaceNone float32 = 0
	SpaceXS   float32 = 2
	SpaceSM   float32 = 4
	SpaceMD   float32 = 8
	SpaceLG   float32 = 12
)

// Style defines the visual appearance of widgets and graphs.
type Style struct {
	TextColor         Color `yaml:"text"`
	TextDisabledColor Color `yaml:"text_disabled"`

	ButtonColor        Color `yaml:"button"`
	ButtonHoveredColor Color `yaml:"button_hovered"`
	ButtonActiveColor  Color `yaml:"button_active"`

	InputBgColor        Color `yaml:"input_bg"`
	InputFocusedBgColor Color `yaml:"input_focused_bg"`
	InputBorderColor    Color `yaml:"input_border"`
	SelectedBgColor     Color `yaml:"selected_bg"`
	DropdownBgColor     Color `yaml:"dropdown_bg"`
	SeparatorColor      Color `yaml:"separator"`

	SliderTrackColor Color `yaml:"slider_track"`
	SliderFillColor  Color `yaml:"slider_fill"`
	SliderGrabColor  Color `yaml:"slider_grab"`
	SliderGrabActive Color `yaml:"slider_grab_active"`
	CheckColor       Color `yaml:"check"`

	GraphBgColor   Color `yaml:"graph_bg"`
	GraphGridColor Color `yaml:"graph_grid"`
	GraphLineColor Color `yaml:"graph_line"`

	FontSize      float32 `yaml:"font_size"`
	ItemSpacing   float32 `yaml:"item_spacing"`
	WidgetHeight  float32 `yaml:"widget_height"`
	ControlWidth  float32 `yaml:"control_width"`
	ButtonPadding float32 `yaml:"button_padding"`
	InputPadding  float32 `yaml:"input_padding"`
	GrabWidth     float32 `yaml:"grab_width"`
	Rounding      float32 `yaml:"rounding"`
	LineWidth     float32 `yaml:"line_width"`
}

// DefaultStyle returns the default dark theme.
func DefaultStyle() Style {
	return Style{
		TextColor:         ColorWhite,
		TextDisabledColor: ColorGray,

		ButtonColor:        RGBA(50, 50, 50, 255),
		ButtonHoveredColor: RGBA(70, 70, 70, 255),
		ButtonActiveColor:  RGBA(90, 90, 90, 255),

		InputBgColor:        RGBA(30, 30, 30, 255),
		InputFocusedBgColor: RGBA(40, 40, 50, 255),
		InputBorderColor:    RGBA(100, 100, 100, 255),
		SelectedBgColor:     RGBA(50, 100, 150, 255),
		DropdownBgColor:     RGBA(25, 25, 25, 250),
		SeparatorColor:      RGBA(80, 80, 80, 255),

		SliderTrackColor: RGBA(40, 40, 40, 255),
		SliderFillColor:  RGBA(50, 100, 150, 255),
		SliderGrabColor:  RGBA(100, 100, 100, 255),
		SliderGrabActive: RGBA(140, 140, 140, 255),
		CheckColor:       RGBA(90, 170, 230, 255),

		GraphBgColor:   RGBA(15, 15, 15, 200),
		GraphGridColor: RGBA(60, 60, 60, 255),
		GraphLineColor: RGBA(90, 200, 120, 255),

		FontSize:      14,
		ItemSpacing:   SpaceSM,
		WidgetHeight:  22,
		ControlWidth:  160,
		ButtonPadding: 6,
		InputPadding:  SpaceSM,
		GrabWidth:     10,
		Rounding:      3,
		LineWidth:     1.5,
	}
}

// ParseStyle decodes a YAML theme. Keys that are absent keep their
// DefaultStyle value; colors are written as "#RRGGBB" or "#RRGGBBAA".
func ParseStyle(data []byte) (Style, error) {
	s := DefaultStyle()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultStyle(), fmt.Errorf("overlay: parse style: %w", err)
	}
	if s.FontSize <= 0 || s.WidgetHeight <= 0 {
		return DefaultStyle(), fmt.Errorf("overlay: parse style: font_size and widget_height must be positive")
	}
	return s, nil
}
