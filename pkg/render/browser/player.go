package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/matzehuels/lottieframes/pkg/render"
)

// stagePage is the document every player page starts from. The stage is
// the display region lottie-web renders into.
const stagePage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>html,body{margin:0}#stage{width:100vw;height:100vh}</style></head>
<body><div id="stage"></div></body></html>`

// JavaScript evaluated in the page. Functions run with rod's Eval, which
// awaits returned promises.
const (
	jsReady = `() => typeof window.lottie !== "undefined" && document.getElementById("stage") !== null`

	jsLoad = `(data) => new Promise((resolve, reject) => {
	if (window.__anim) { window.__anim.destroy(); }
	const stage = document.getElementById("stage");
	stage.innerHTML = "";
	const anim = window.lottie.loadAnimation({
		container: stage,
		renderer: "svg",
		loop: true,
		autoplay: false,
		animationData: JSON.parse(data),
	});
	window.__anim = anim;
	if (anim.isLoaded) { resolve(); return; }
	anim.addEventListener("DOMLoaded", () => resolve());
	anim.addEventListener("data_failed", () => reject(new Error("animation data failed to load")));
})`

	jsFrameCount = `() => Math.floor(window.__anim.totalFrames)`

	jsSeek = `(f) => { window.__anim.goToAndStop(f, true); }`

	jsSnapshot = `() => {
	const svg = document.querySelector("#stage svg");
	if (!svg) { throw new Error("no svg element rendered"); }
	return new XMLSerializer().serializeToString(svg);
}`

	jsPlay = `() => { window.__anim.play(); }`

	jsDestroy = `() => { if (window.__anim) { window.__anim.destroy(); window.__anim = null; } }`
)

// Player is a render.Player backed by one browser page.
type Player struct {
	page *rod.Page
}

var _ render.Player = (*Player)(nil)

// openPlayer creates a page, writes the stage document, injects lottie-web
// and waits until the player reports it is ready.
func openPlayer(ctx context.Context, b *rod.Browser, script string) (*Player, error) {
	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	p := &Player{page: page}

	if err := page.Context(ctx).SetDocumentContent(stagePage); err != nil {
		p.Close()
		return nil, fmt.Errorf("browser: set stage: %w", err)
	}
	if err := page.Context(ctx).AddScriptTag("", script); err != nil {
		p.Close()
		return nil, fmt.Errorf("browser: inject lottie-web: %w", err)
	}
	if err := page.Context(ctx).Wait(rod.Eval(jsReady)); err != nil {
		p.Close()
		return nil, fmt.Errorf("browser: wait ready: %w", err)
	}
	return p, nil
}

// Load implements render.Player.
func (p *Player) Load(ctx context.Context, document []byte) error {
	_, err := p.page.Context(ctx).Eval(jsLoad, string(document))
	return err
}

// FrameCount implements render.Player.
func (p *Player) FrameCount(ctx context.Context) (int, error) {
	res, err := p.page.Context(ctx).Eval(jsFrameCount)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// Seek implements render.Player.
func (p *Player) Seek(ctx context.Context, frame int) error {
	_, err := p.page.Context(ctx).Eval(jsSeek, frame)
	return err
}

// Snapshot implements render.Player.
func (p *Player) Snapshot(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(jsSnapshot)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Play implements render.Player.
func (p *Player) Play(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(jsPlay)
	return err
}

// Close destroys the animation and closes the page.
func (p *Player) Close() error {
	if p.page == nil {
		return nil
	}
	_, _ = p.page.Eval(jsDestroy)
	err := p.page.Close()
	p.page = nil
	return err
}
