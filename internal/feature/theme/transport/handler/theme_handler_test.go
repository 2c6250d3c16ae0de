package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/theme/domain/entity"
	"stock_dashboard/internal/feature/theme/transport/http/dto"
	"stock_dashboard/internal/feature/theme/usecase"
)

// mockThemeUsecase はThemeUsecaseインターフェースのモック実装です。
type mockThemeUsecase struct {
	CurrentFunc func(ctx context.Context, override string) entity.Theme
	SetFunc     func(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error)
}

func (m *mockThemeUsecase) Current(ctx context.Context, override string) entity.Theme {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, override)
	}
	return entity.Default()
}

func (m *mockThemeUsecase) Set(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error) {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, name, palette)
	}
	return entity.Theme{}, nil
}

func TestThemeHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotOverride string
	h := NewThemeHandler(&mockThemeUsecase{
		CurrentFunc: func(ctx context.Context, override string) entity.Theme {
			gotOverride = override
			th, _ := entity.Preset(entity.NameDark)
			return th
		},
	})
	r := gin.New()
	r.GET("/theme", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/theme?theme=dark", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", gotOverride)

	var body dto.ThemeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, entity.NameDark, body.Theme.Name)
	assert.Equal(t, []string{"light", "dark", "blue"}, body.Presets)
}

func TestThemeHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		setFunc        func(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error)
		expectedStatus int
	}{
		{
			name: "success: preset",
			body: `{"theme":"blue"}`,
			setFunc: func(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error) {
				th, _ := entity.Preset(name)
				return th, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "success: custom passes palette",
			body: `{"theme":"custom","chart_background":"#808080"}`,
			setFunc: func(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error) {
				if palette == nil || palette.ChartBackground != "#808080" {
					return entity.Theme{}, errors.New("palette not passed")
				}
				return entity.Theme{Name: entity.NameCustom, ChartBackground: palette.ChartBackground}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: missing theme",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: invalid theme",
			body: `{"theme":"neon"}`,
			setFunc: func(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error) {
				return entity.Theme{}, fmt.Errorf("%w: unknown theme %q", usecase.ErrInvalidTheme, name)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: store write error",
			body: `{"theme":"dark"}`,
			setFunc: func(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error) {
				return entity.Theme{}, errors.New("read-only file system")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := NewThemeHandler(&mockThemeUsecase{SetFunc: tt.setFunc})
			r := gin.New()
			r.PUT("/theme", h.Update)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/theme", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}
