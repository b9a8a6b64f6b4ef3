package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no flags, env, or config file", t, func() {
		fs := FlagSet()
		So(fs.Parse(nil), ShouldBeNil)

		Convey("Load returns notir's stated defaults", func() {
			cfg, err := Load(fs)
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, 5800)
			So(cfg.DevMode, ShouldBeFalse)
			So(cfg.SendQueueSize, ShouldEqual, 16)
			So(cfg.HeartbeatInterval, ShouldEqual, 30*time.Second)
			So(cfg.HeartbeatGrace, ShouldEqual, 60*time.Second)
			So(cfg.PingPongTimeout, ShouldEqual, 5*time.Second)
		})
	})
}

func TestLoadPortFlagOverridesDefault(t *testing.T) {
	Convey("Given --port is set on the command line", t, func() {
		fs := FlagSet()
		So(fs.Parse([]string{"--port", "9000"}), ShouldBeNil)

		Convey("Load reflects the flag value", func() {
			cfg, err := Load(fs)
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, 9000)
		})
	})
}

func TestLoadShortPortFlag(t *testing.T) {
	Convey("Given -p is set on the command line", t, func() {
		fs := FlagSet()
		So(fs.Parse([]string{"-p", "1234"}), ShouldBeNil)

		Convey("Load reflects the short flag value", func() {
			cfg, err := Load(fs)
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, 1234)
		})
	})
}

func TestLoadDevFlag(t *testing.T) {
	Convey("Given --dev is set", t, func() {
		fs := FlagSet()
		So(fs.Parse([]string{"--dev"}), ShouldBeNil)

		Convey("Load enables dev mode", func() {
			cfg, err := Load(fs)
			So(err, ShouldBeNil)
			So(cfg.DevMode, ShouldBeTrue)
		})
	})
}

func TestRelayConfigProjection(t *testing.T) {
	Convey("Given a loaded Config", t, func() {
		fs := FlagSet()
		So(fs.Parse(nil), ShouldBeNil)
		cfg, err := Load(fs)
		So(err, ShouldBeNil)

		Convey("RelayConfig carries over the pipeline tunables", func() {
			rc := cfg.RelayConfig()
			So(rc.SendQueueSize, ShouldEqual, cfg.SendQueueSize)
			So(rc.HeartbeatInterval, ShouldEqual, cfg.HeartbeatInterval)
			So(rc.HeartbeatGrace, ShouldEqual, cfg.HeartbeatGrace)
			So(rc.PingPongTimeout, ShouldEqual, cfg.PingPongTimeout)
		})
	})
}
