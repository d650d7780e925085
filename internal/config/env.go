package config

import (
	"errors"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"

	engineopts "github.com/phyten/tdfix/internal/engine/opts"
)

// LoadDotEnv pulls a .env file (when present) into the process environment
// before FromEnv runs. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FromEnv builds a configuration layer from TDFIX_* environment variables.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	setString := func(target **string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		value := raw
		*target = &value
	}
	setList := func(target **[]string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		list := engineopts.SplitMulti([]string{raw})
		if len(list) == 0 {
			empty := make([]string, 0)
			*target = &empty
			return
		}
		copyVals := make([]string, len(list))
		copy(copyVals, list)
		*target = &copyVals
	}
	setBool := func(target **bool, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}
	setInt := func(target **int, key string, min, max int) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}

	setString(&cfg.Scan.OriginalDomain, "TDFIX_ORIGINAL_DOMAIN")
	setString(&cfg.Scan.NewDomain, "TDFIX_NEW_DOMAIN")
	setList(&cfg.Scan.Paths, "TDFIX_PATH")
	setList(&cfg.Scan.Excludes, "TDFIX_EXCLUDE")
	setList(&cfg.Scan.Extensions, "TDFIX_EXTENSIONS")
	setBool(&cfg.Scan.Write, "TDFIX_WRITE")
	setInt(&cfg.Scan.MaxFileBytes, "TDFIX_MAX_FILE_BYTES", 0, math.MaxInt)
	// Allow large values here and rely on NormalizeAndValidate to enforce the
	// canonical upper bound so every input path shares the same error message.
	setInt(&cfg.Scan.Jobs, "TDFIX_JOBS", 0, math.MaxInt)
	setString(&cfg.Scan.Root, "TDFIX_ROOT")

	setString(&cfg.UI.Output, "TDFIX_OUTPUT")
	setString(&cfg.UI.Color, "TDFIX_COLOR")
	setString(&cfg.UI.Fields, "TDFIX_FIELDS")

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}
