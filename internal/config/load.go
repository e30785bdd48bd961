package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pilgrimlyieu/focust/internal/model"
)

// Load reads a TOML config file at path, merges it over Defaults(), and
// validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Defaults()
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		stringToTimeOfDayHook,
		stringToDaySetHook,
		stringToExclusionRuleHook,
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	assignIDs(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// assignIDs hands out fresh BreakId/AttentionId values to every break
// settings object and attention loaded from disk, since ids are a
// process-local runtime concept, not a config-file field.
func assignIDs(cfg *Config) {
	for i := range cfg.Schedules {
		cfg.Schedules[i].MiniBreaks.Base.ID = model.NextBreakId()
		cfg.Schedules[i].LongBreaks.Base.ID = model.NextBreakId()
	}
	for i := range cfg.Attentions {
		cfg.Attentions[i].ID = model.NextAttentionId()
		cfg.Attentions[i].SortedTimes()
	}
}

var timeOfDayType = reflect.TypeOf(TimeOfDay{})

func stringToTimeOfDayHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeOfDayType {
		return data, nil
	}
	return ParseTimeOfDay(data.(string))
}

var daySetType = reflect.TypeOf(DaySet(0))

func stringToDaySetHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != daySetType {
		return data, nil
	}
	var names []string
	switch from.Kind() {
	case reflect.Slice, reflect.Array:
		v := reflect.ValueOf(data)
		for i := 0; i < v.Len(); i++ {
			names = append(names, fmt.Sprintf("%v", v.Index(i).Interface()))
		}
	case reflect.String:
		names = strings.Split(data.(string), ",")
	default:
		return data, nil
	}

	var d DaySet
	for _, n := range names {
		wd, err := parseWeekday(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		d |= 1 << uint(wd)
	}
	return d, nil
}

func parseWeekday(s string) (Weekday, error) {
	switch strings.ToLower(s) {
	case "sun", "sunday":
		return Sunday, nil
	case "mon", "monday":
		return Monday, nil
	case "tue", "tuesday":
		return Tuesday, nil
	case "wed", "wednesday":
		return Wednesday, nil
	case "thu", "thursday":
		return Thursday, nil
	case "fri", "friday":
		return Friday, nil
	case "sat", "saturday":
		return Saturday, nil
	default:
		return 0, fmt.Errorf("unrecognized weekday %q", s)
	}
}

var exclusionRuleType = reflect.TypeOf(ExclusionRule(0))

func stringToExclusionRuleHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != exclusionRuleType {
		return data, nil
	}
	switch strings.ToLower(data.(string)) {
	case "pause":
		return RulePause, nil
	case "resume":
		return RuleResume, nil
	default:
		return nil, fmt.Errorf("rule must be \"pause\" or \"resume\", got %q", data)
	}
}
