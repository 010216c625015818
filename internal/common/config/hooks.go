package config

import (
	"reflect"
	"strings"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/langeval/data-ingestion/internal/common/ingesterrors"
)

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			PulsarSubscriptionTypeHookFunc(),
		),
	),
}

func PulsarSubscriptionTypeHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t != reflect.TypeOf(pulsar.Exclusive) {
			return data, nil
		}
		return ParsePulsarSubscriptionType(data.(string))
	}
}

func ParsePulsarSubscriptionType(subscriptionType string) (pulsar.SubscriptionType, error) {
	switch strings.ToLower(strings.TrimSpace(subscriptionType)) {
	case "", "failover":
		return pulsar.Failover, nil
	case "exclusive":
		return pulsar.Exclusive, nil
	case "shared":
		return pulsar.Shared, nil
	case "keyshared", "key_shared":
		return pulsar.KeyShared, nil
	default:
		return pulsar.Failover, &ingesterrors.ErrInvalidArgument{
			Name:    "pulsar.subscriptionType",
			Value:   subscriptionType,
			Message: "Valid subscription types are failover, exclusive, shared and keyShared",
		}
	}
}
