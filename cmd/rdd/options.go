package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bamsammich/rdd/internal/config"
	"github.com/bamsammich/rdd/internal/device"
	"github.com/bamsammich/rdd/internal/size"
	"github.com/bamsammich/rdd/internal/ui"
)

var errUnknownConv = errors.New("unknown conv flag")

// options holds raw flag values before validation.
type options struct {
	input       string
	output      string
	bs          string
	speed       string
	status      string
	logFile     string
	conv        []string
	count       int64
	countSet    bool
	skip        int64
	seed        uint64
	seedSet     bool
	digest      bool
	verbose     bool
	quiet       bool
	showVersion bool
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.input, "if", "i", "", "input file or device, or random[:SEED] (default: stdin)")
	fs.StringVarP(&o.output, "of", "o", "", "existing output file or block device (default: stdout)")
	fs.StringVarP(&o.bs, "bs", "b", "", "block size SIZE or range MIN-MAX (e.g. 4k, 512-1m)")
	fs.Int64Var(&o.count, "count", 0, "copy only N blocks (default: until input ends)")
	fs.Int64Var(&o.skip, "skip", 0, "skip N max-sized blocks at the start of input")
	fs.StringVar(&o.speed, "speed", "", "average speed limit in bytes/sec (e.g. 10m)")
	fs.StringSliceVarP(&o.conv, "conv", "s", nil, "comma-separated list of noerror, sync, fdatasync, fsync")
	fs.StringVar(&o.status, "status", "", "status level: none, noxfer, progress, bitarray (default: noxfer)")
	fs.Uint64Var(&o.seed, "seed", 0, "seed for block sizes and offsets (default: random, logged)")
	fs.BoolVar(&o.digest, "digest", false, "print the BLAKE3 digest of the written stream")
	fs.StringVar(&o.logFile, "log", "", "write structured JSON log to FILE")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "suppress all log output except errors")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the CLI.
func applyConfigDefaults(fs *pflag.FlagSet, defaults config.DefaultsConfig, o *options) {
	if !fs.Changed("bs") && defaults.BS != nil {
		o.bs = *defaults.BS
	}
	if !fs.Changed("speed") && defaults.Speed != nil {
		o.speed = *defaults.Speed
	}
	if !fs.Changed("status") && defaults.Status != nil {
		o.status = *defaults.Status
	}
	if !fs.Changed("conv") && len(defaults.Conv) > 0 {
		o.conv = defaults.Conv
	}
	o.countSet = fs.Changed("count")
	switch {
	case fs.Changed("seed"):
		o.seedSet = true
	case defaults.Seed != nil:
		o.seed = uint64(*defaults.Seed) //nolint:gosec // G115: any bit pattern is a valid seed
		o.seedSet = true
	}
}

// settings is the validated form of options.
type settings struct {
	input    string
	output   string
	bsMin    int64
	bsMax    int64
	count    int64
	skip     int64
	speed    int64
	status   ui.StatusLevel
	syncMode device.SyncMode
	noError  bool
	zeroFill bool
	seed     uint64
	seedSet  bool
	digest   bool
	logFile  string
}

// resolve validates options and parses sizes, conv flags and the status
// level. Every error it returns is a configuration error.
func (o *options) resolve() (settings, error) {
	s := settings{
		input:   o.input,
		output:  o.output,
		count:   o.count,
		skip:    o.skip,
		seed:    o.seed,
		seedSet: o.seedSet,
		digest:  o.digest,
		logFile: o.logFile,
	}

	if strings.TrimSpace(o.bs) == "" {
		return settings{}, errors.New("--bs is required (or set bs in the config file)")
	}
	lo, hi, err := size.ParseRange(o.bs)
	if err != nil {
		return settings{}, fmt.Errorf("invalid --bs: %w", err)
	}
	if lo <= 0 {
		return settings{}, fmt.Errorf("invalid --bs: %w: block size must be positive", size.ErrInvalidSize)
	}
	s.bsMin, s.bsMax = lo, hi

	if o.count < 0 || (o.countSet && o.count == 0) {
		return settings{}, fmt.Errorf("invalid --count %d: must be positive", o.count)
	}
	if o.skip < 0 {
		return settings{}, fmt.Errorf("invalid --skip %d: must not be negative", o.skip)
	}

	if o.speed != "" {
		s.speed, err = size.Parse(o.speed)
		if err != nil {
			return settings{}, fmt.Errorf("invalid --speed: %w", err)
		}
	}

	s.status, err = ui.ParseStatusLevel(o.status)
	if err != nil {
		return settings{}, err
	}

	if err := s.applyConv(o.conv); err != nil {
		return settings{}, err
	}
	return s, nil
}

// applyConv sets the error and durability behavior from --conv values.
// When both fdatasync and fsync are given the stronger fsync wins.
func (s *settings) applyConv(conv []string) error {
	for _, raw := range conv {
		for c := range strings.SplitSeq(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(c)) {
			case "":
			case "noerror":
				s.noError = true
			case "sync":
				s.zeroFill = true
			case "fdatasync":
				if s.syncMode != device.SyncFull {
					s.syncMode = device.SyncData
				}
			case "fsync":
				s.syncMode = device.SyncFull
			default:
				return fmt.Errorf("%w %q (want noerror, sync, fdatasync or fsync)", errUnknownConv, c)
			}
		}
	}
	return nil
}
