package recipe

import (
	"fmt"
	"net/http"
	"strings"

	"beersmith-bridge/internal/core/catalog"
	recipeService "beersmith-bridge/internal/core/recipe"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListRecipes 列出食譜摘要
func (h *Handler) HandleListRecipes(c *gin.Context) {
	var f recipeService.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondError(c, common.Wrapf(common.ErrInvalidRequest, "invalid query: %v", err), nil)
		return
	}
	items := h.recipes.List(f)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "recipes": items})
}

// HandleGetRecipe 食譜內容，並附上各原料在資料庫中的對應
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	detail, suggestions, err := h.recipes.Detail(c.Param("name"))
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// HandleValidateRecipe 檢查食譜是否符合風格範圍
func (h *Handler) HandleValidateRecipe(c *gin.Context) {
	report, suggestions, err := h.recipes.Validate(c.Param("name"))
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleBeerXML 匯出 BeerXML 1.0
func (h *Handler) HandleBeerXML(c *gin.Context) {
	out, suggestions, err := h.recipes.BeerXML(c.Param("name"))
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(c.Param("name"))))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}

// exportFilename 匯出檔名；名稱中的路徑字元改為底線
func exportFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "recipe.xml"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "\"", "_").Replace(name) + ".xml"
}

// HandleSuggest 依現有原料推薦可做的食譜
func (h *Handler) HandleSuggest(c *gin.Context) {
	var req recipeService.SuggestRequest
	if !bindJSON(c, &req) {
		return
	}

	common.LogInfo("收到食譜推薦請求",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("grains", len(req.Grains)),
		zap.Int("hops", len(req.Hops)),
		zap.Int("yeasts", len(req.Yeasts)),
	)

	resp, err := h.suggestions.Suggest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleStockSuggest 以 Grocy 庫存推薦食譜
func (h *Handler) HandleStockSuggest(c *gin.Context) {
	if h.stock == nil {
		respondError(c, common.Wrapf(common.ErrServiceUnavailable, "grocy integration is not enabled"), nil)
		return
	}
	resp, err := h.suggestions.FromStock(c.Request.Context(), h.stock)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleReload 重新讀取資料檔；指定 kind 時只重新載入該種類
func HandleReload(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		reloadID := common.GenerateUUID()

		var snap *catalog.Snapshot
		if k := c.Query("kind"); k != "" {
			kind, err := record.ParseKind(k)
			if err != nil {
				respondError(c, err, nil)
				return
			}
			snap = store.ReloadKind(kind)
		} else {
			snap = store.Load()
		}

		common.LogInfo("重新載入請求完成",
			zap.String("reload_id", reloadID),
			zap.String("request_id", requestid.Get(c)),
			zap.Uint64("generation", snap.Generation),
		)
		c.JSON(http.StatusOK, gin.H{
			"reload_id":  reloadID,
			"generation": snap.Generation,
			"loaded_at":  snap.LoadedAt,
			"warnings":   snap.WarningCount(),
			"kinds":      snap.Status(),
		})
	}
}
