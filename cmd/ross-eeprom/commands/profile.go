package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ross-protocol/ross-go/pkg/eeprom"
	"github.com/ross-protocol/ross-go/pkg/paged"
	"github.com/ross-protocol/ross-go/pkg/retry"
)

// Profile describes the simulated chip and where its contents live.
type Profile struct {
	// Image is the file backing the simulated device.
	Image string `yaml:"image"`

	// Size is the device capacity in bytes.
	Size int `yaml:"size"`

	// PageSize is the device page size in bytes.
	PageSize int `yaml:"page_size"`

	// SettleTime is the delay after every page write.
	SettleTime time.Duration `yaml:"settle_time"`

	// DeviceInfoAddress is where the device info record lives.
	DeviceInfoAddress uint32 `yaml:"device_info_address"`

	// RetryAttempts bounds the busy-poll. Zero retries forever.
	RetryAttempts int `yaml:"retry_attempts"`

	// RetryBackoff is the wait between busy retries: none, constant or
	// exponential. Empty busy-polls like none.
	RetryBackoff string `yaml:"retry_backoff"`

	// RetryInterval is the constant wait, or the first exponential one.
	RetryInterval time.Duration `yaml:"retry_interval"`

	// RetryMaxInterval caps exponential backoff. Zero uses 64 times
	// RetryInterval.
	RetryMaxInterval time.Duration `yaml:"retry_max_interval"`

	// BusyCycles makes the simulated chip reject that many commands after
	// every write.
	BusyCycles int `yaml:"busy_cycles"`

	// EventLog is the storage event file. Empty disables it.
	EventLog string `yaml:"event_log"`
}

// Retry backoff names.
const (
	BackoffNone        = "none"
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// DefaultProfile returns a 24C32 part: 4 KB, 32-byte pages.
func DefaultProfile() Profile {
	return Profile{
		Image:      "ross-eeprom.img",
		Size:       4096,
		PageSize:   paged.DefaultPageSize,
		SettleTime: paged.DefaultSettleTime,
	}
}

// LoadProfile reads a YAML profile. Keys missing from the file keep their
// default values.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks the device geometry.
func (p Profile) Validate() error {
	var errs []error
	if p.Image == "" {
		errs = append(errs, errors.New("image path is empty"))
	}
	if p.Size <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %d", p.Size))
	}
	if p.PageSize <= 0 || (p.Size > 0 && p.PageSize > p.Size) {
		errs = append(errs, fmt.Errorf("invalid page size %d", p.PageSize))
	}
	if p.SettleTime < 0 {
		errs = append(errs, fmt.Errorf("invalid settle time %v", p.SettleTime))
	}
	if p.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("invalid retry attempts %d", p.RetryAttempts))
	}
	switch p.RetryBackoff {
	case "", BackoffNone:
	case BackoffConstant, BackoffExponential:
		if p.RetryInterval <= 0 {
			errs = append(errs, fmt.Errorf("%s backoff needs a positive retry interval", p.RetryBackoff))
		}
		if p.RetryMaxInterval < 0 || (p.RetryMaxInterval > 0 && p.RetryMaxInterval < p.RetryInterval) {
			errs = append(errs, fmt.Errorf("invalid retry max interval %v", p.RetryMaxInterval))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown retry backoff %q (valid: none, constant, exponential)", p.RetryBackoff))
	}
	if p.Size > 0 && uint64(p.DeviceInfoAddress) >= uint64(p.Size) {
		errs = append(errs, fmt.Errorf("device info address 0x%x outside device", p.DeviceInfoAddress))
	}
	return errors.Join(errs...)
}

// StoreConfig translates the profile into a store configuration.
func (p Profile) StoreConfig() eeprom.Config {
	cfg := eeprom.DefaultConfig()
	cfg.DeviceInfoAddress = p.DeviceInfoAddress
	cfg.Paged.PageSize = p.PageSize
	cfg.Paged.SettleTime = p.SettleTime
	cfg.Paged.Retry = retry.Policy{MaxAttempts: p.RetryAttempts, Backoff: p.backoff()}
	return cfg
}

func (p Profile) backoff() retry.Backoff {
	switch p.RetryBackoff {
	case BackoffConstant:
		return retry.ConstantBackoff{Interval: p.RetryInterval}
	case BackoffExponential:
		ceiling := p.RetryMaxInterval
		if ceiling == 0 {
			ceiling = 64 * p.RetryInterval
		}
		return retry.NewExponentialBackoff(p.RetryInterval, ceiling)
	default:
		return nil
	}
}
