package grove

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/game_object"
	"github.com/Carmen-Shannon/mystic-grove/engine/light"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
	"github.com/Carmen-Shannon/mystic-grove/engine/model"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/Carmen-Shannon/mystic-grove/engine/scene"
	"github.com/Carmen-Shannon/mystic-grove/grove/placement"
	"github.com/go-gl/mathgl/mgl32"
)

// Texture paths, relative to the loader root.
const (
	MossColorTexture     = "moss/color.png"
	MossNormalTexture    = "moss/normal.png"
	MossRoughnessTexture = "moss/roughness.png"
	WaterNormalTexture   = "water/normal.jpg"
	WaterCausticsTexture = "water/caustics.jpg"
)

// Default decoration counts.
const (
	DefaultCrystals  = 50
	DefaultFireflies = 50
)

// Palette.
var (
	barkColor      = common.RGB(0x8B4513)
	foliageColor   = common.RGB(0x228B22)
	crystalColor   = common.RGB(0x44C9E8)
	crystalGlow    = common.RGB(0x0BE4FF)
	fireflyColor   = common.RGB(0xFFFF00)
	waterColor     = common.RGB(0x0F5E9C)
	floorColor     = common.RGB(0x000000)
	FogColor       = common.RGB(0x223344)
	lightColor     = common.RGB(0xFFFFFF)
	TrunkPosition  = mgl32.Vec3{0, 1.5, 0}
	SunPosition    = mgl32.Vec3{10, 15, 10}
	groundPosition = mgl32.Vec3{0, -8, 0}
)

// Fixed scene parameters.
const (
	FogNear = 5
	FogFar  = 20

	WaterLevel = -1.5
	FloorLevel = -2

	mossRepeat        = 10
	waterRepeat       = 4
	waterOpacity      = 0.8
	waterRoughness    = 0.15
	crystalGlowAmount = 0.3
	ambientIntensity  = 0.5
	sunIntensity      = 2
	shadowMapSize     = 2048
)

// Options sets how many random decorations Assemble adds.
type Options struct {
	Crystals  int
	Fireflies int
}

// DefaultOptions returns 50 crystals and 50 fireflies.
func DefaultOptions() Options {
	return Options{Crystals: DefaultCrystals, Fireflies: DefaultFireflies}
}

// SunShadow is the directional light's shadow camera: a 20×20 box from 1 to 20 units
// in front of the light.
func SunShadow() light.ShadowConfig {
	cfg := light.DefaultShadowConfig()
	cfg.MapSize = shadowMapSize
	cfg.Near, cfg.Far = 1, 20
	cfg.Left, cfg.Right = -10, 10
	cfg.Top, cfg.Bottom = 10, -10
	return cfg
}

// Assemble builds the grove into ctx.Scene: the tree, crystals, fireflies, ground,
// water, floor, lights and fog. The fireflies are also recorded in ctx.Fireflies.
//
// Textures are requested from the loader and bound whenever they finish decoding; a
// missing file leaves the surface in its flat colour. A nil loader skips texturing.
//
// Parameters:
//   - ctx: the context to fill; Scene, Camera and Renderer must be set
//   - opts: decoration counts; negative counts are treated as 0
//   - src: random source for the decoration placements
//   - textures: texture loader, may be nil
//
// Returns:
//   - error: ErrMissingCollaborator if the context or source is incomplete
func Assemble(ctx *SceneContext, opts Options, src placement.Source, textures loader.Loader) error {
	if err := ctx.check(); err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("random source: %w", ErrMissingCollaborator)
	}
	s := ctx.Scene

	// Draw order matters for seeded output: foliage, crystals, then fireflies.
	foliage := placement.Foliage(src)
	crystals := placement.Crystals(src, opts.Crystals)
	fireflies := placement.Fireflies(src, opts.Fireflies)

	bark := material.NewMaterial(material.WithName("bark"), material.WithColor(barkColor))

	s.Add(game_object.NewGameObject(
		game_object.WithName("trunk"),
		game_object.WithModel(model.NewModel(
			model.Cylinder{RadiusTop: 0.5, RadiusBottom: 0.5, Height: 7, RadialSegments: 16, HeightSegments: 1},
			bark, model.WithName("trunk"))),
		game_object.WithPosition(TrunkPosition),
		game_object.WithShadows(true, true),
	))

	branch := model.NewModel(
		model.Cylinder{RadiusTop: 0.1, RadiusBottom: 0.2, Height: 2, RadialSegments: 4, HeightSegments: 1},
		bark, model.WithName("branch"))
	for i, p := range placement.Branches() {
		s.Add(decoration(GroupBranches, i, branch, p, true, true))
	}

	bush := model.NewModel(
		model.Sphere{Radius: 1, WidthSegments: 16, HeightSegments: 16},
		material.NewMaterial(material.WithName("foliage"), material.WithColor(foliageColor)),
		model.WithName("bush"))
	for i, p := range foliage {
		s.Add(decoration(GroupFoliage, i, bush, p, true, true))
	}

	crystal := model.NewModel(
		model.Cone{Radius: 0.2, Height: 1, RadialSegments: 8},
		material.NewMaterial(
			material.WithName("crystal"),
			material.WithColor(crystalColor),
			material.WithEmissive(crystalGlow, crystalGlowAmount),
		),
		model.WithName("crystal"))
	for i, p := range crystals {
		s.Add(decoration(GroupCrystals, i, crystal, p.Placement, true, false))
	}

	firefly := model.NewModel(
		model.Sphere{Radius: 0.05, WidthSegments: 8, HeightSegments: 8},
		material.NewMaterial(
			material.WithName("firefly"),
			material.WithKind(material.KindBasic),
			material.WithColor(fireflyColor),
		),
		model.WithName("firefly"))
	ctx.Fireflies = make([]Firefly, 0, len(fireflies))
	for i, p := range fireflies {
		obj := decoration(GroupFireflies, i, firefly, p, false, false)
		s.Add(obj)
		ctx.Fireflies = append(ctx.Fireflies, Firefly{Object: obj, Index: i})
	}

	s.Add(game_object.NewGameObject(
		game_object.WithName("ground"),
		game_object.WithModel(model.NewModel(
			model.Sphere{Radius: 9, WidthSegments: 15, HeightSegments: 5},
			mossMaterial(textures), model.WithName("ground"))),
		game_object.WithPosition(groundPosition),
		// The cap pokes above the water, where the tree and crystals shade it.
		game_object.WithShadows(false, true),
	))

	flat := mgl32.Vec3{-math.Pi / 2, 0, 0}
	s.Add(game_object.NewGameObject(
		game_object.WithName("water"),
		game_object.WithModel(model.NewModel(
			model.Plane{Width: 36, Height: 36, WidthSegments: 1, HeightSegments: 1},
			waterMaterial(textures), model.WithName("water"))),
		game_object.WithPosition(mgl32.Vec3{0, WaterLevel, 0}),
		game_object.WithRotation(flat),
		game_object.WithShadows(false, true),
	))

	s.Add(game_object.NewGameObject(
		game_object.WithName("floor"),
		game_object.WithModel(model.NewModel(
			model.Plane{Width: 50, Height: 50, WidthSegments: 1, HeightSegments: 1},
			material.NewMaterial(material.WithName("floor"), material.WithColor(floorColor)),
			model.WithName("floor"))),
		game_object.WithPosition(mgl32.Vec3{0, FloorLevel, 0}),
		game_object.WithRotation(flat),
		game_object.WithShadows(false, true),
	))

	s.AddLight(light.NewAmbientLight(lightColor, ambientIntensity))
	s.AddLight(light.NewLight(
		light.WithType(light.LightTypeDirectional),
		light.WithColor(lightColor),
		light.WithIntensity(sunIntensity),
		light.WithPosition(SunPosition),
		light.WithTarget(TrunkPosition),
		light.WithShadow(SunShadow()),
	))

	s.SetFog(&scene.Fog{Color: FogColor, Near: FogNear, Far: FogFar})
	s.SetBackground(FogColor)
	return nil
}

func decoration(group string, i int, m model.Model, p placement.Placement, cast, receive bool) game_object.GameObject {
	return game_object.NewGameObject(
		game_object.WithName(fmt.Sprintf("%s-%d", group, i)),
		game_object.WithGroup(group),
		game_object.WithModel(m),
		game_object.WithPosition(p.Position),
		game_object.WithRotation(p.Rotation),
		game_object.WithScale(p.Scale),
		game_object.WithShadows(cast, receive),
	)
}

func tiled(textures loader.Loader, path string, repeat float32) *loader.Texture {
	if textures == nil {
		return nil
	}
	return textures.Load(path,
		loader.WithRepeat(repeat, repeat),
		loader.WithWrap(loader.WrapRepeat, loader.WrapRepeat),
	)
}

func mossMaterial(textures loader.Loader) material.Material {
	return material.NewMaterial(
		material.WithName("moss"),
		material.WithColorMap(tiled(textures, MossColorTexture, mossRepeat)),
		material.WithNormalMap(tiled(textures, MossNormalTexture, mossRepeat)),
		material.WithRoughnessMap(tiled(textures, MossRoughnessTexture, mossRepeat)),
	)
}

func waterMaterial(textures loader.Loader) material.Material {
	return material.NewMaterial(
		material.WithName("water"),
		material.WithKind(material.KindWater),
		material.WithColor(waterColor),
		material.WithRoughness(waterRoughness),
		material.WithOpacity(waterOpacity),
		material.WithNormalMap(tiled(textures, WaterNormalTexture, waterRepeat)),
		material.WithAlphaMap(tiled(textures, WaterCausticsTexture, waterRepeat)),
		material.WithNormalScroll(0.03, 0.02),
	)
}
