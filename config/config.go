/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config declares the options surface recognized at manager
// construction. It is intentionally thin: no CLI, no file watching, no
// persisted state, mirroring the "library, not a service" framing of this
// module's scope.
package config

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	liberr "github.com/nabbar/redislane/errors"
	"github.com/spf13/viper"
)

// Strategy names the lane-selection policy, matching the enum tag values
// accepted by go-playground/validator's oneof constraint below.
type Strategy string

const (
	StrategyRoundRobin     Strategy = "round-robin"
	StrategyThreadAffinity Strategy = "thread-affinity"
	StrategyLeastUsed      Strategy = "least-used"
)

const (
	DefaultNumLanes            = 8
	DefaultConnectionName      = "default"
	DefaultPubSubWarnThreshold = 100
	DefaultMetricsCacheMax     = 1000
	DefaultStrategy            = StrategyRoundRobin
)

// Config is the recognized options table of this module: num_lanes,
// strategy, connection_name, pubsub_warn_threshold, metrics_cache_max.
// disconnected_behavior is fixed to reject and is not user-configurable,
// so it has no field here.
type Config struct {
	NumLanes            int      `json:"num_lanes" yaml:"num_lanes" toml:"num_lanes" mapstructure:"num_lanes" validate:"min=1,max=64"`
	Strategy            Strategy `json:"strategy" yaml:"strategy" toml:"strategy" mapstructure:"strategy" validate:"oneof=round-robin thread-affinity least-used"`
	ConnectionName      string   `json:"connection_name" yaml:"connection_name" toml:"connection_name" mapstructure:"connection_name" validate:"required"`
	PubSubWarnThreshold int      `json:"pubsub_warn_threshold" yaml:"pubsub_warn_threshold" toml:"pubsub_warn_threshold" mapstructure:"pubsub_warn_threshold" validate:"min=1"`
	MetricsCacheMax     int      `json:"metrics_cache_max" yaml:"metrics_cache_max" toml:"metrics_cache_max" mapstructure:"metrics_cache_max" validate:"min=1"`
}

// Default returns the documented defaults: 8 lanes, round-robin, the
// "default" connection name, a pub/sub warn threshold of 100, and a
// metrics cache cap of 1000.
func Default() Config {
	return Config{
		NumLanes:            DefaultNumLanes,
		Strategy:            DefaultStrategy,
		ConnectionName:      DefaultConnectionName,
		PubSubWarnThreshold: DefaultPubSubWarnThreshold,
		MetricsCacheMax:     DefaultMetricsCacheMax,
	}
}

// Validate checks the struct tags above with go-playground/validator and
// translates any violation into the package's own CodeError taxonomy so
// that callers distinguish a malformed config from a driver fault.
func (c Config) Validate() liberr.Error {
	var e = ErrorValidation.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			switch er.Field() {
			case "NumLanes":
				e.Add(ErrorNumLanesOutOfRange.Error())
			case "Strategy":
				e.Add(ErrorStrategyUnknown.Error())
			default:
				e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
			}
		}
	}

	if !e.HasParent() {
		return nil
	}

	return e
}

// LoadFromViper decodes a Config out of v (populated from env, file or
// flags by the caller) over top of the documented defaults, then
// validates the result. v.Unmarshal is mapstructure-backed, so the
// `mapstructure` tags on Config drive the decode exactly as they drive
// json/yaml/toml for any caller that instead feeds Config through those
// encoders directly.
func LoadFromViper(v *viper.Viper) (Config, error) {
	def := Default()
	v.SetDefault("num_lanes", def.NumLanes)
	v.SetDefault("strategy", string(def.Strategy))
	v.SetDefault("connection_name", def.ConnectionName)
	v.SetDefault("pubsub_warn_threshold", def.PubSubWarnThreshold)
	v.SetDefault("metrics_cache_max", def.MetricsCacheMax)

	var c Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&c, viper.DecodeHook(decodeHook)); err != nil {
		return Config{}, ErrorValidation.Error(err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}
