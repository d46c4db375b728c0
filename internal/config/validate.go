package config

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
)

var (
	// ErrEmptyFacade indicates a missing facade class or bridge class name
	ErrEmptyFacade = errors.New("empty bridge class name")

	// ErrEmptyMarkers indicates no record marker base classes
	ErrEmptyMarkers = errors.New("empty record markers")

	// ErrInvalidTarget indicates an incomplete or duplicated target
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInvalidDebounce indicates a non-positive watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidGlob indicates a watch include pattern that does not compile
	ErrInvalidGlob = errors.New("invalid watch include pattern")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateBridge(&cfg.Bridge); err != nil {
		errs = append(errs, err)
	}

	if len(cfg.Interfaces.RecordMarkers) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one base class is required", ErrEmptyMarkers))
	}

	if err := validateTargets(cfg.Targets); err != nil {
		errs = append(errs, err)
	}

	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateBridge(cfg *BridgeConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.FacadeClass) == "" {
		errs = append(errs, fmt.Errorf("%w: facade_class cannot be empty", ErrEmptyFacade))
	}
	if strings.TrimSpace(cfg.ClassName) == "" {
		errs = append(errs, fmt.Errorf("%w: class_name cannot be empty", ErrEmptyFacade))
	}
	if strings.TrimSpace(cfg.RemoteMethod) == "" {
		errs = append(errs, fmt.Errorf("%w: remote_method cannot be empty", ErrEmptyFacade))
	}

	return joinErrors(errs)
}

func validateTargets(targets []TargetConfig) error {
	var errs []error
	seen := make(map[string]bool)

	for i, t := range targets {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%w: targets[%d] has no name", ErrInvalidTarget, i))
		} else if seen[t.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate target name '%s'", ErrInvalidTarget, t.Name))
		}
		seen[t.Name] = true

		if t.APISource == "" && t.TypesSource == "" {
			errs = append(errs, fmt.Errorf("%w: target '%s' needs api_source or types_source", ErrInvalidTarget, t.Name))
		}
		if t.APIDest != "" && t.APISource == "" {
			errs = append(errs, fmt.Errorf("%w: target '%s' sets api_dest without api_source", ErrInvalidTarget, t.Name))
		}
		if t.TypesDest != "" && t.TypesSource == "" {
			errs = append(errs, fmt.Errorf("%w: target '%s' sets types_dest without types_source", ErrInvalidTarget, t.Name))
		}
	}

	return joinErrors(errs)
}

func validateWatch(cfg *WatchConfig) error {
	var errs []error

	if cfg.DebounceMS <= 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms must be positive, got %d", ErrInvalidDebounce, cfg.DebounceMS))
	}

	for _, pattern := range cfg.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidGlob, pattern, err))
		}
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	format := "validation failed:" + strings.Repeat("\n  - %w", len(errs))
	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}
	return fmt.Errorf(format, args...)
}
