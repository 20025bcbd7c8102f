package tag

import "github.com/google/uuid"

var sampleOwner = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

// sampleTree returns an attachment-shaped compound covering every kind.
func sampleTree() Compound {
	return Compound{
		"floatingticks": Int(42),
		"tool_enabled":  Bool(true),
		"speed":         Double(0.5),
		"name":          String(`Ferricore "pick"`),
		"owner":         UUID(sampleOwner),
		"lavapos":       Compound{"x": Int(1), "y": Int(64), "z": Int(-2)},
		"stupefy_targets": List{
			String("a"),
			String("b"),
		},
		"bound_global_pos": Compound{
			"dimension": String("minecraft:the_nether"),
			"x":         Int(10),
			"y":         Int(70),
			"z":         Int(-5),
		},
	}
}
