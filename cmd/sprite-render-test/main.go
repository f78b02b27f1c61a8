// Command sprite-render-test is the demo game: it loads a texture dictionary
// and a single sprite scene from descriptor files and renders the declared
// sprites until the window closes.
package main

import (
	"flag"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tlmoroso/sprite-render-test/engine"
	"github.com/tlmoroso/sprite-render-test/engine/config"
	"github.com/tlmoroso/sprite-render-test/engine/descriptor"
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/graphics"
	"github.com/tlmoroso/sprite-render-test/engine/input"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/observability"
	"github.com/tlmoroso/sprite-render-test/engine/render"
	"github.com/tlmoroso/sprite-render-test/engine/scene"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	game := newSpriteRenderGame(cfg)
	e := engine.NewEngineFromConfig(cfg, game)
	if err := e.Run(); err != nil {
		zap.L().Fatal("engine exited with error", zap.Error(err))
	}
}

// spriteRenderGame wires the demo's asset descriptors into the engine's load
// phase.
type spriteRenderGame struct {
	cfg *config.Config
}

var _ engine.Game = &spriteRenderGame{}

func newSpriteRenderGame(cfg *config.Config) *spriteRenderGame {
	return &spriteRenderGame{cfg: cfg}
}

func (g *spriteRenderGame) RegisterComponents(w *ecs.World) {
	ecs.Register[graphics.Texture](w)
	ecs.Register[graphics.Transform](w)
}

// Load builds the startup task: load the texture dictionary, install it as a
// world resource, and only then load the scene stack, whose texture components
// resolve names through the dictionary.
func (g *spriteRenderGame) Load() loading.DrawTask[*scene.Stack] {
	dictLoader := graphics.NewTextureDictLoader(
		filepath.Join(g.cfg.AssetsDir, graphics.TextureDictTypeID+descriptor.JSONExt),
		graphics.WithDecodeWorkers(g.cfg.Engine.DecodeWorkers),
	)

	stackLoader := scene.NewStackLoader(
		filepath.Join(g.cfg.AssetsDir, descriptor.ScenesDir, scene.StackTypeID+descriptor.JSONExt),
		g.sceneFactory,
	)

	installDict := loading.Map(dictLoader.Load(),
		func(dict *graphics.TextureDict, h loading.Handles) (struct{}, error) {
			err := h.World.TryWrite(func(w *ecs.World) error {
				ecs.SetResource(w, dict)
				return nil
			})
			return struct{}{}, err
		})

	return loading.Sequence(installDict, stackLoader.Load())
}

// spriteRenderSceneID is the kind string of the demo scene's descriptor.
const spriteRenderSceneID = "sprite_render_scene"

func (g *spriteRenderGame) sceneFactory(d descriptor.Descriptor) (scene.SceneLoader, error) {
	switch d.TypeID {
	case spriteRenderSceneID:
		return &spriteRenderSceneLoader{d: d}, nil
	default:
		return nil, &descriptor.DispatchError{TypeID: d.TypeID, Source: "scene factory"}
	}
}

// spriteRenderSceneDescriptor is the demo scene's descriptor content.
type spriteRenderSceneDescriptor struct {
	EntityPaths []string `json:"entity_paths"`
}

// spriteRenderSceneLoader builds the demo scene: its entities, then its
// renderer.
type spriteRenderSceneLoader struct {
	d descriptor.Descriptor
}

var _ scene.SceneLoader = &spriteRenderSceneLoader{}

func (l *spriteRenderSceneLoader) LoadScene() loading.DrawTask[scene.Scene] {
	return loading.NewDrawTask(func(h loading.Handles) (scene.Scene, error) {
		sd, err := descriptor.Decode[spriteRenderSceneDescriptor](l.d)
		if err != nil {
			return nil, err
		}

		entities, err := descriptor.LoadEntities(sd.EntityPaths, componentMux).Execute(h)
		if err != nil {
			return nil, err
		}
		zap.L().Debug("sprite scene entities loaded", zap.Int("entities", len(entities)))

		return &spriteRenderScene{renderer: graphics.NewSpriteRenderer()}, nil
	})
}

func componentMux(d descriptor.Descriptor) (descriptor.ComponentLoader, error) {
	switch d.TypeID {
	case graphics.TextureTypeID:
		return graphics.NewTextureLoader(d), nil
	case graphics.TransformTypeID:
		return graphics.NewTransformLoader(d), nil
	default:
		return nil, &descriptor.DispatchError{TypeID: d.TypeID, Source: "entity component"}
	}
}

// spriteRenderScene draws every loaded sprite entity each frame. It never
// finishes on its own; closing the window ends the game.
type spriteRenderScene struct {
	renderer *graphics.SpriteRenderer
}

var _ scene.Scene = &spriteRenderScene{}

func (s *spriteRenderScene) Name() string {
	return "Sprite Render Test Scene"
}

func (s *spriteRenderScene) Update(_ *ecs.World) (scene.Transition, error) {
	return scene.None(), nil
}

func (s *spriteRenderScene) Draw(w *ecs.World, ctx render.Context) error {
	return s.renderer.Render(w, ctx)
}

func (s *spriteRenderScene) Interact(_ *ecs.World, _ *input.State) error {
	return nil
}

func (s *spriteRenderScene) IsFinished(_ *ecs.World) (bool, error) {
	return false, nil
}
