package environment

import (
	"context"
	"strings"
	"testing"

	"github.com/macbundle/macbundle/pkg/config"
	macCtx "github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/installname"
	"github.com/macbundle/macbundle/pkg/machoinfo"
	"github.com/macbundle/macbundle/pkg/otool"
	"github.com/macbundle/macbundle/pkg/relocate"
	"github.com/macbundle/macbundle/pkg/sign"
	"github.com/macbundle/macbundle/pkg/xcode"
	"github.com/sirupsen/logrus"
)

func newTestContext(cfg *config.Config) *macCtx.Context {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	return macCtx.NewContext(context.Background(), cfg, logger)
}

func TestCheckPipeLoadsBuildSettings(t *testing.T) {
	t.Setenv(xcode.TargetBuildDir, "/tmp/Build/Products/Debug")
	t.Setenv(xcode.FrameworksFolderPath, "App.app/Contents/Frameworks")
	t.Setenv(xcode.ExecutablePath, "App.app/Contents/MacOS/App")
	t.Setenv(xcode.CodeSigningAllowed, "NO")

	ctx := newTestContext(config.Default())
	if err := (CheckPipe{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if ctx.Env == nil || ctx.Env.ExecutablePath != "App.app/Contents/MacOS/App" {
		t.Fatalf("Env = %+v", ctx.Env)
	}
	if ctx.Relocator == nil {
		t.Fatal("Relocator not created")
	}
	if got := ctx.Relocator.Destination("/opt/local/lib/libz.1.dylib"); got != "/tmp/Build/Products/Debug/App.app/Contents/Frameworks/libz.1.dylib" {
		t.Errorf("Destination() = %q", got)
	}
	if _, ok := ctx.Tools.Inspector.(otool.Inspector); !ok {
		t.Errorf("Inspector = %T, want otool.Inspector", ctx.Tools.Inspector)
	}
	if _, ok := ctx.Tools.Editor.(installname.Tool); !ok {
		t.Errorf("Editor = %T, want installname.Tool", ctx.Tools.Editor)
	}
	if ctx.Tools.Signer != nil {
		t.Errorf("Signer = %T, want nil when signing is not allowed", ctx.Tools.Signer)
	}
}

func TestCheckPipeMissingBuildSettings(t *testing.T) {
	t.Setenv(xcode.TargetBuildDir, "")
	t.Setenv(xcode.FrameworksFolderPath, "")
	t.Setenv(xcode.ExecutablePath, "App.app/Contents/MacOS/App")

	ctx := newTestContext(config.Default())
	err := CheckPipe{}.Run(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "FRAMEWORKS_FOLDER_PATH, TARGET_BUILD_DIR") {
		t.Errorf("error = %v", err)
	}
	if ctx.Relocator != nil {
		t.Error("Relocator created despite missing settings")
	}
}

func TestCheckPipeTools(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name        string
		modify      func(cfg *config.Config)
		env         xcode.Environment
		wantMacho   bool
		wantSigner  bool
		wantOptions sign.Options
		wantErr     bool
	}{
		{
			name:   "otool without signing",
			modify: func(cfg *config.Config) {},
			env:    xcode.Environment{SigningAllowed: false, Identity: "-"},
		},
		{
			name: "macho backend",
			modify: func(cfg *config.Config) {
				cfg.Inspect.Backend = "macho"
			},
			wantMacho: true,
		},
		{
			name:       "xcode identity and hardened runtime",
			modify:     func(cfg *config.Config) {},
			env:        xcode.Environment{SigningAllowed: true, Identity: "Apple Development", HardenedRuntime: true},
			wantSigner: true,
			wantOptions: sign.Options{
				Identity:        "Apple Development",
				HardenedRuntime: true,
			},
		},
		{
			name: "configuration overrides xcode",
			modify: func(cfg *config.Config) {
				cfg.Sign.Identity = "Developer ID Application: John Doe (TEAM123)"
				cfg.Sign.HardenedRuntime = &no
				cfg.Sign.Timestamp = true
			},
			env:        xcode.Environment{SigningAllowed: true, Identity: "Apple Development", HardenedRuntime: true},
			wantSigner: true,
			wantOptions: sign.Options{
				Identity:  "Developer ID Application: John Doe (TEAM123)",
				Timestamp: true,
			},
		},
		{
			name: "hardened runtime forced on",
			modify: func(cfg *config.Config) {
				cfg.Sign.HardenedRuntime = &yes
			},
			env:        xcode.Environment{SigningAllowed: true, Identity: "-"},
			wantSigner: true,
			wantOptions: sign.Options{
				Identity:        "-",
				HardenedRuntime: true,
			},
		},
		{
			name: "signing disabled",
			modify: func(cfg *config.Config) {
				cfg.Sign.Disable = true
			},
			env: xcode.Environment{SigningAllowed: true, Identity: "-"},
		},
		{
			name: "unknown backend",
			modify: func(cfg *config.Config) {
				cfg.Inspect.Backend = "nm"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			ctx := newTestContext(cfg)
			e := tt.env
			e.BuildDir = t.TempDir()
			e.FrameworksPath = "App.app/Contents/Frameworks"
			e.ExecutablePath = "App.app/Contents/MacOS/App"
			ctx.Env = &e

			err := CheckPipe{}.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			_, isMacho := ctx.Tools.Inspector.(machoinfo.Inspector)
			if isMacho != tt.wantMacho {
				t.Errorf("Inspector = %T, want macho %v", ctx.Tools.Inspector, tt.wantMacho)
			}

			signer, isCodesign := ctx.Tools.Signer.(sign.Codesigner)
			if isCodesign != tt.wantSigner {
				t.Fatalf("Signer = %T, want codesigner %v", ctx.Tools.Signer, tt.wantSigner)
			}
			if tt.wantSigner && signer.Options != tt.wantOptions {
				t.Errorf("Options = %+v, want %+v", signer.Options, tt.wantOptions)
			}
		})
	}
}

func TestCheckPipeKeepsPresetTools(t *testing.T) {
	inspector := relocate.NewMockInspector()
	editor := &relocate.MockEditor{}
	signer := &relocate.MockSigner{}

	ctx := newTestContext(config.Default())
	ctx.Env = &xcode.Environment{
		BuildDir:       t.TempDir(),
		FrameworksPath: "App.app/Contents/Frameworks",
		ExecutablePath: "App.app/Contents/MacOS/App",
		SigningAllowed: true,
		Identity:       "-",
	}
	ctx.Tools = relocate.Tools{Inspector: inspector, Editor: editor, Signer: signer}

	if err := (CheckPipe{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ctx.Tools.Inspector != inspector || ctx.Tools.Editor != editor || ctx.Tools.Signer != signer {
		t.Errorf("preset tools replaced: %+v", ctx.Tools)
	}
}

func TestCheckPipeString(t *testing.T) {
	p := CheckPipe{}
	expected := "reading build environment"
	if got := p.String(); got != expected {
		t.Errorf("String() = %q, want %q", got, expected)
	}
}
