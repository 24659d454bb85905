// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/i18n"
)

const defaultLang = "en"

func TestNew(t *testing.T) {
	t.Run("new template succeeds", func(t *testing.T) {
		tpl := testTemplates(t, defaultLang, nil)
		if tpl.Summary == nil || tpl.Popup == nil {
			t.Fatal("expected templates to be non-nil")
		}
	})

	tests := []struct {
		name      string
		configure func(*config.Config)
	}{
		{
			name: "parsing summary template fails",
			configure: func(c *config.Config) {
				c.Templates.Summary = "{{ .Data }"
			},
		},
		{
			name: "parsing popup template fails",
			configure: func(c *config.Config) {
				c.Templates.Popup = "{{ .Data }"
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf, err := config.New()
			if err != nil {
				t.Fatalf("failed to create config: %s", err)
			}
			loc, err := i18n.New(defaultLang)
			if err != nil {
				t.Fatalf("failed to create localizer: %s", err)
			}
			tc.configure(conf)
			if _, err = New(conf, loc); err == nil {
				t.Fatal("expected template parsing to fail, but didn't")
			}
		})
	}
}

func TestTemplates_Render(t *testing.T) {
	t.Run("rendering summary template succeeds", func(t *testing.T) {
		tpl := testTemplates(t, defaultLang, func(c *config.Config) {
			c.Templates.Summary = "{{ .Data }}"
		})
		got, err := tpl.RenderSummary(map[string]string{"Data": "test"})
		if err != nil {
			t.Fatalf("failed to render template: %s", err)
		}
		if got != "test" {
			t.Errorf("expected rendered template to be %q, got %q", "test", got)
		}
	})
	t.Run("rendering popup template escapes HTML", func(t *testing.T) {
		tpl := testTemplates(t, defaultLang, func(c *config.Config) {
			c.Templates.Popup = "<b>{{ .Data }}</b>"
		})
		got, err := tpl.RenderPopup(map[string]string{"Data": "<script>alert(1)</script>"})
		if err != nil {
			t.Fatalf("failed to render template: %s", err)
		}
		if strings.Contains(got, "<script>") {
			t.Errorf("expected value to be escaped, got %q", got)
		}
		if !strings.HasPrefix(got, "<b>") {
			t.Errorf("expected template markup to be kept, got %q", got)
		}
	})
	t.Run("rendering with missing fields fails", func(t *testing.T) {
		tpl := testTemplates(t, defaultLang, func(c *config.Config) {
			c.Templates.Summary = "{{ .Data.Missing }}"
		})
		_, err := tpl.RenderSummary(struct{ Data string }{Data: "x"})
		if err == nil {
			t.Fatal("expected rendering to fail, but didn't")
		}
		if !strings.Contains(err.Error(), "failed to render summary template") {
			t.Errorf("unexpected error: %s", err)
		}
	})
}

func TestTemplates_funcs(t *testing.T) {
	t.Run("localizer function translates correctly", func(t *testing.T) {
		tpl := testTemplates(t, "de", func(c *config.Config) {
			c.Templates.Summary = "{{loc .Data}}"
		})
		got, err := tpl.RenderSummary(map[string]string{"Data": "humidity"})
		if err != nil {
			t.Fatalf("failed to render template: %s", err)
		}
		if got != "Luftfeuchtigkeit" {
			t.Errorf("expected rendered template to be %q, got %q", "Luftfeuchtigkeit", got)
		}
	})
	t.Run("localizer function returns original value on unsupported translation", func(t *testing.T) {
		tpl := testTemplates(t, "de", nil)
		if got := tpl.Loc("invalid-unknown"); got != "invalid-unknown" {
			t.Errorf("expected original value, got %q", got)
		}
	})
	t.Run("localized time function returns correct format", func(t *testing.T) {
		wantTime := time.Date(2025, time.January, 1, 16, 56, 0, 0, time.UTC)
		tests := []struct {
			name string
			lang string
			want string
		}{
			{"english 12h", "en", "4:56 p.m."},
			{"german 24h", "de", "16:56"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				tpl := testTemplates(t, tc.lang, func(c *config.Config) {
					c.Templates.Summary = "{{localizedTime .Data}}"
				})
				got, err := tpl.RenderSummary(map[string]time.Time{"Data": wantTime})
				if err != nil {
					t.Fatalf("failed to render template: %s", err)
				}
				if !strings.EqualFold(got, tc.want) {
					t.Errorf("expected rendered template to be %q, got %q", tc.want, got)
				}
			})
		}
	})
	t.Run("title function capitalizes every word", func(t *testing.T) {
		tpl := testTemplates(t, defaultLang, nil)
		if got := tpl.Title("light rain"); got != "Light Rain" {
			t.Errorf("expected %q, got %q", "Light Rain", got)
		}
	})
	t.Run("float format rounds to precision", func(t *testing.T) {
		tests := []struct {
			val  float64
			prec int
			want string
		}{
			{51.5074, 2, "51.51"},
			{-0.1278, 2, "-0.13"},
			{4.0, 0, "4"},
		}
		for _, tc := range tests {
			if got := floatFormat(tc.val, tc.prec); got != tc.want {
				t.Errorf("floatFormat(%f, %d): expected %q, got %q", tc.val, tc.prec, tc.want, got)
			}
		}
	})
	t.Run("time format uses the Go layout", func(t *testing.T) {
		now := time.Now()
		if got := timeFormat(now, time.RFC3339); got != now.Format(time.RFC3339) {
			t.Errorf("expected %q, got %q", now.Format(time.RFC3339), got)
		}
	})
}

func TestEmojiWithSpace(t *testing.T) {
	t.Run("emoji is padded by its width", func(t *testing.T) {
		emoji := "☀️"
		want := emoji + strings.Repeat(" ", runewidth.StringWidth(emoji)+1)
		if got := EmojiWithSpace(emoji); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
	t.Run("empty emoji stays empty", func(t *testing.T) {
		if got := EmojiWithSpace(""); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func testTemplates(t *testing.T, lang string, configure func(*config.Config)) *Templates {
	t.Helper()
	conf, err := config.New()
	if err != nil {
		t.Fatalf("failed to create config: %s", err)
	}
	if configure != nil {
		configure(conf)
	}
	loc, err := i18n.New(lang)
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	tpl, err := New(conf, loc)
	if err != nil {
		t.Fatalf("failed to create template: %s", err)
	}
	return tpl
}
