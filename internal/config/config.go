// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating the config.
package config

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for peso-dashboard.
type Configuration struct {
	Data    DataConfig    `mapstructure:"data" yaml:"data"`
	View    ViewConfig    `mapstructure:"view" yaml:"view"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv"`
}

// ViewConfig holds the date range shown when no range is requested.
type ViewConfig struct {
	Start string `mapstructure:"start" yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End   string `mapstructure:"end" yaml:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// DataConfig describes every input table.
type DataConfig struct {
	Dir       string           `mapstructure:"dir" yaml:"dir,omitempty"`
	Primary   PrimaryTable     `mapstructure:"primary" yaml:"primary"`
	Events    EventsTable      `mapstructure:"events" yaml:"events,omitempty"`
	Auxiliary []AuxiliaryTable `mapstructure:"auxiliary" yaml:"auxiliary,omitempty" validate:"dive"`
}

// Table holds the load settings shared by every input file.
type Table struct {
	File         string `mapstructure:"file" yaml:"file" validate:"required"`
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter,omitempty" validate:"omitempty,delimiter"`
	DateColumn   string `mapstructure:"dateColumn" yaml:"dateColumn" validate:"required"`
	DateLayout   string `mapstructure:"dateLayout" yaml:"dateLayout" validate:"required"`
	NumberLocale string `mapstructure:"numberLocale" yaml:"numberLocale,omitempty" validate:"omitempty,oneof=standard decimal-comma"`
}

// PrimaryTable is the exchange-rate table.
type PrimaryTable struct {
	Table       `mapstructure:",squash" yaml:",inline"`
	ValueColumn string `mapstructure:"valueColumn" yaml:"valueColumn" validate:"required"`
}

// EventsTable is the historical-events table. An empty File disables events.
type EventsTable struct {
	File              string `mapstructure:"file" yaml:"file,omitempty"`
	Delimiter         string `mapstructure:"delimiter" yaml:"delimiter,omitempty" validate:"omitempty,delimiter"`
	DateColumn        string `mapstructure:"dateColumn" yaml:"dateColumn,omitempty" validate:"required_with=File"`
	DateLayout        string `mapstructure:"dateLayout" yaml:"dateLayout,omitempty" validate:"required_with=File"`
	DescriptionColumn string `mapstructure:"descriptionColumn" yaml:"descriptionColumn,omitempty" validate:"required_with=File"`
}

// Table returns the events table as generic load settings.
func (e EventsTable) Table() Table {
	return Table{
		File:       e.File,
		Delimiter:  e.Delimiter,
		DateColumn: e.DateColumn,
		DateLayout: e.DateLayout,
	}
}

// AuxiliaryTable is a secondary dataset file, holding one or more series.
type AuxiliaryTable struct {
	Table  `mapstructure:",squash" yaml:",inline"`
	Series []SeriesConfig `mapstructure:"series" yaml:"series" validate:"required,min=1,dive"`
}

// SeriesConfig maps one value column to an overlay series.
type SeriesConfig struct {
	ID     string `mapstructure:"id" yaml:"id" validate:"required,seriesid"`
	Column string `mapstructure:"column" yaml:"column" validate:"required"`
	Label  string `mapstructure:"label" yaml:"label,omitempty"`
	Unit   string `mapstructure:"unit" yaml:"unit,omitempty"`
	Axis   string `mapstructure:"axis" yaml:"axis,omitempty" validate:"omitempty,oneof=y1 y2 y3 y4"`
	Color  string `mapstructure:"color" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Scaled bool   `mapstructure:"scaled" yaml:"scaled,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	// Relative data directories are relative to the config file.
	if !filepath.IsAbs(conf.Data.Dir) {
		conf.Data.Dir = filepath.Join(filepath.Dir(configPath), conf.Data.Dir)
	}
	return conf, nil
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
// Relative data paths are resolved against the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.ApplyDefaults()
	return &configuration, nil
}

// DefaultConfiguration returns the configuration describing the bundled datasets.
func DefaultConfiguration() *Configuration {
	conf := &Configuration{}
	conf.ApplyDefaults()
	return conf
}

// ApplyDefaults fills every unset field. When no primary table is configured
// the whole data section falls back to the default datasets.
func (conf *Configuration) ApplyDefaults() {
	if conf.Data.Primary.File == "" {
		dir := conf.Data.Dir
		conf.Data = DefaultData()
		if dir != "" {
			conf.Data.Dir = dir
		}
	}
	if conf.Data.Dir == "" {
		conf.Data.Dir = "."
	}

	defaultTable(&conf.Data.Primary.Table)
	if conf.Data.Events.File != "" && conf.Data.Events.Delimiter == "" {
		conf.Data.Events.Delimiter = ","
	}
	for i := range conf.Data.Auxiliary {
		aux := &conf.Data.Auxiliary[i]
		defaultTable(&aux.Table)
		for j := range aux.Series {
			s := &aux.Series[j]
			if s.Label == "" {
				s.Label = s.ID
			}
			if s.Axis == "" {
				s.Axis = "y2"
			}
		}
	}

	if conf.View.Start == "" {
		conf.View.Start = constants.DefaultViewStart
	}
	if conf.View.End == "" {
		conf.View.End = constants.DefaultViewEnd
	}
}

func defaultTable(t *Table) {
	if t.Delimiter == "" {
		t.Delimiter = ","
	}
	if t.NumberLocale == "" {
		t.NumberLocale = constants.NumberLocaleStandard
	}
}

// Path resolves a configured file name against the data directory.
func (d DataConfig) Path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(d.Dir, file)
}

// Files returns the resolved path of every configured input file.
func (d DataConfig) Files() []string {
	files := []string{d.Path(d.Primary.File)}
	if d.Events.File != "" {
		files = append(files, d.Path(d.Events.File))
	}
	for _, aux := range d.Auxiliary {
		files = append(files, d.Path(aux.File))
	}
	return files
}

// ViewRange returns the parsed default view range.
func (conf *Configuration) ViewRange() (datetime.Date, datetime.Date, error) {
	start, err := datetime.Parse(DateLayout, conf.View.Start)
	if err != nil {
		return datetime.Date{}, datetime.Date{}, fmt.Errorf("invalid view start %q: %w", conf.View.Start, err)
	}
	end, err := datetime.Parse(DateLayout, conf.View.End)
	if err != nil {
		return datetime.Date{}, datetime.Date{}, fmt.Errorf("invalid view end %q: %w", conf.View.End, err)
	}
	return start, end, nil
}
