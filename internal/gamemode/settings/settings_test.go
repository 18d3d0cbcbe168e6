package settings

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"titan-siege/server/internal/titan"
)

func TestConvertSelectsVariantByType(t *testing.T) {
	for _, gamemode := range Types() {
		s, err := Convert([]byte(`{"TitanLimit": 12}`), gamemode)
		if err != nil {
			t.Fatalf("convert %s: %v", gamemode, err)
		}
		if s.Type() != gamemode {
			t.Fatalf("expected %s variant, got %s", gamemode, s.Type())
		}
		if s.Base().TitanLimit != 12 {
			t.Fatalf("expected TitanLimit 12 for %s, got %d", gamemode, s.Base().TitanLimit)
		}
	}
}

func TestConvertUnknownTypeIsConfigurationError(t *testing.T) {
	_, err := Convert([]byte(`{}`), Type(42))
	if !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("expected ErrUnknownGamemode, got %v", err)
	}
}

func TestConvertRushKeepsDefaultsAndDecodesRatios(t *testing.T) {
	doc := `{
		"TitanHealthMode": "Scaled",
		"CustomTitanRatio": true,
		"TitanTypeRatio": {"Normal": 1, "Punk": 1, "Crawler": 2},
		"DisabledTitans": ["Crawler"]
	}`
	s, err := Convert([]byte(doc), TypeTitanRush)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	rush, ok := s.(*RushSettings)
	if !ok {
		t.Fatalf("expected *RushSettings, got %T", s)
	}
	if rush.TitanInterval != 7 {
		t.Fatalf("expected default interval 7, got %d", rush.TitanInterval)
	}
	if rush.TitanHealthMode != HealthScaled {
		t.Fatalf("expected scaled health mode, got %s", rush.TitanHealthMode)
	}
	if rush.TitanTypeRatio[titan.ArchetypeCrawler] != 2 {
		t.Fatalf("expected crawler weight 2, got %v", rush.TitanTypeRatio)
	}
	if !rush.IsDisabled(titan.ArchetypeCrawler) || rush.IsDisabled(titan.ArchetypeNormal) {
		t.Fatalf("unexpected disabled set %v", rush.DisabledTitans)
	}
}

func TestConvertRejectsBrokenInvariants(t *testing.T) {
	cases := map[string]string{
		"negative weight":  `{"TitanTypeRatio": {"Normal": -1}}`,
		"health bounds":    `{"TitanHealthMinimum": 50, "TitanHealthMaximum": 10}`,
		"size bounds":      `{"TitanCustomSize": true, "TitanMinimumSize": 3, "TitanMaximumSize": 1}`,
		"zero interval":    `{"TitanInterval": 0}`,
		"negative limit":   `{"TitanLimit": -1}`,
		"bad health mode":  `{"TitanHealthMode": "Random"}`,
		"unknown archtype": `{"DisabledTitans": ["Colossal"]}`,
	}
	for name, doc := range cases {
		if _, err := Convert([]byte(doc), TypeTitanRush); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDecodeUsesDiscriminatorField(t *testing.T) {
	s, err := Decode([]byte(`{"Gamemode": "Wave", "MaxWave": 5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wave, ok := s.(*WaveSettings)
	if !ok {
		t.Fatalf("expected *WaveSettings, got %T", s)
	}
	if wave.MaxWave != 5 {
		t.Fatalf("expected MaxWave 5, got %d", wave.MaxWave)
	}

	if _, err := Decode([]byte(`{"Gamemode": 6}`)); err != nil {
		t.Fatalf("decode ordinal discriminator: %v", err)
	}
	if _, err := Decode([]byte(`{"TitanInterval": 3}`)); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected missing discriminator error, got %v", err)
	}
	if _, err := Decode([]byte(`{"Gamemode": "Colossal"}`)); !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("expected unknown gamemode error, got %v", err)
	}
}

func TestNumericEnumsDecode(t *testing.T) {
	s, err := Decode([]byte(`{"Gamemode": 6, "TitanHealthMode": 1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Type() != TypeTitanRush {
		t.Fatalf("expected TitanRush, got %s", s.Type())
	}
	if got := s.Base().TitanHealthMode; got != HealthScaled {
		t.Fatalf("expected Scaled health mode, got %s", got)
	}

	named, err := Convert([]byte(`{"TitanHealthMode": "disabled"}`), TypeTitans)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := named.Base().TitanHealthMode; got != HealthDisabled {
		t.Fatalf("expected Disabled health mode, got %s", got)
	}

	if _, err := Decode([]byte(`{"Gamemode": 12}`)); !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("expected unknown gamemode for ordinal 12, got %v", err)
	}
	if _, err := Decode([]byte(`{"Gamemode": true}`)); !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("expected unknown gamemode for a boolean, got %v", err)
	}
	if _, err := Convert([]byte(`{"TitanHealthMode": 1.5}`), TypeTitans); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected invalid settings for a fractional mode, got %v", err)
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType("titanrush")
	if err != nil || got != TypeTitanRush {
		t.Fatalf("expected TitanRush, got %v (%v)", got, err)
	}
	if _, err := ParseType("9"); !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("expected ordinal 9 to be unknown, got %v", err)
	}
}

func TestInitialTitans(t *testing.T) {
	kill, err := Convert([]byte(`{"Titans":12}`), TypeTitans)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := InitialTitans(kill); got != 12 {
		t.Fatalf("expected 12 initial titans, got %d", got)
	}
	rush, err := New(TypeTitanRush)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := InitialTitans(rush); got != 0 {
		t.Fatalf("expected rush to spawn nothing on load, got %d", got)
	}
}

func TestSchemaDescribesVariantFields(t *testing.T) {
	schema, err := Schema(TypeTitanRush)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if schema.Title != "TitanRush settings" {
		t.Fatalf("expected TitanRush title, got %q", schema.Title)
	}
	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	for _, field := range []string{"TitanInterval", "TitanLimit"} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("expected schema to mention %s", field)
		}
	}
	if _, err := Schema(Type(42)); !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("expected ErrUnknownGamemode, got %v", err)
	}
}
