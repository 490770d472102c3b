package config

// Presets are partial configurations layered over DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"bouncy": func(c *Config) {
		c.Body.SpringConstant = 1.5
		c.Body.SpringDamping = 0.05
		c.Body.Pressure = 4.0
		c.Body.Restitution = 0.99
	},
	"jelly": func(c *Config) {
		c.Body.NodeCount = 32
		c.Body.SpringConstant = 0.2
		c.Body.SpringDamping = 0.3
		c.Body.Pressure = 0.5
	},
	"balloon": func(c *Config) {
		c.Body.Gravity = false
		c.Body.Pressure = 8.0
		c.Body.SpringConstant = 0.3
	},
	"drop": func(c *Config) {
		c.Body.NodeCount = 8
		c.Body.Radius = 50
		c.Sim.AnimationSpeed = 1
		c.Sim.Ticks = 1000
	},
	"heavy": func(c *Config) {
		c.Body.Mass = 40
		c.Body.SpringConstant = 2.0
		c.Body.SpringDamping = 0.4
		c.Body.Restitution = 0.6
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
