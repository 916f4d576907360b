package homeassistant

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		"",
		"",
		fmt.Sprintf("sensor.%s_zen_session", hostId),
		time.Second * 60,
	}
}

var forbiddenHostIdChars = regexp.MustCompile("[^a-z0-9_]")

func normalizeEntityIdPrefix(id string) string {
	id = strings.ToLower(id)
	id = strings.TrimSpace(id)
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, ".", "_")
	id = forbiddenHostIdChars.ReplaceAllString(id, "_")
	return id
}

var hostId = func() string {
	if result, err := os.Hostname(); err == nil {
		return normalizeEntityIdPrefix(result)
	}

	buf := make([]byte, 8)
	if _, err := rand.Reader.Read(buf); err != nil {
		panic(fmt.Errorf("cannot generate entity id: %v", err))
	}

	return hex.EncodeToString(buf)
}()

type Configuration struct {
	Server   string `yaml:"server,omitempty"`
	Token    string `yaml:"token,omitempty"`
	EntityId string `yaml:"entityId"`

	// DeadZoneInterval suppresses redundant writes of an unchanged
	// session state within this window.
	DeadZoneInterval time.Duration `yaml:"deadZoneInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.homeassistant.server", "URL of the Home Assistant instance.").
		Envar("ZM_SIGNAL_HOMEASSISTANT_SERVER").
		StringVar(&this.Server)
	using.Flag("signal.homeassistant.token", "Long life token to access the Home Assistant instance.").
		Envar("ZM_SIGNAL_HOMEASSISTANT_TOKEN").
		StringVar(&this.Token)
	using.Flag("signal.homeassistant.entityId", "Entity the session state is published as.").
		Envar("ZM_SIGNAL_HOMEASSISTANT_ENTITYID").
		StringVar(&this.EntityId)
	using.Flag("signal.homeassistant.deadZoneInterval", "Interval within which redundant state writes are suppressed.").
		Envar("ZM_SIGNAL_HOMEASSISTANT_DEADZONEINTERVAL").
		DurationVar(&this.DeadZoneInterval)
}
