package recipe

import (
	"net/http"

	"beersmith-bridge/internal/core/mutation"
	"beersmith-bridge/internal/core/pricing"
	recipeService "beersmith-bridge/internal/core/recipe"
	"beersmith-bridge/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateRequest 欄位修改請求
type UpdateRequest struct {
	Fields mutation.ChangeSet `json:"fields" binding:"required"`
	Reason string             `json:"reason,omitempty"`
}

// PriceQuery 以查詢參數覆寫顯示貨幣與單位
type PriceQuery struct {
	Currency string `form:"currency"`
	Unit     string `form:"unit"`
}

// HandleListIngredients 列出某種類的資料
func (h *Handler) HandleListIngredients(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var f recipeService.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondError(c, common.Wrapf(common.ErrInvalidRequest, "invalid query: %v", err), nil)
		return
	}
	items := h.ingredients.List(kind, f)
	c.JSON(http.StatusOK, gin.H{"kind": kind, "count": len(items), "items": items})
}

// HandleGetIngredient 取得單筆資料；找不到時 404 並附上相近名稱
func (h *Handler) HandleGetIngredient(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	r, suggestions, err := h.ingredients.Get(kind, c.Param("name"))
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleSearch 跨種類搜尋名稱
func (h *Handler) HandleSearch(c *gin.Context) {
	kinds, err := recipeService.ParseKinds(c.Query("kinds"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	items := h.ingredients.Search(c.Query("q"), kinds)
	results := make([]gin.H, 0, len(items))
	for _, r := range items {
		results = append(results, gin.H{"kind": r.Kind(), "record": r})
	}
	c.JSON(http.StatusOK, gin.H{"query": c.Query("q"), "count": len(results), "results": results})
}

// HandleMatch 批次模糊比對
func (h *Handler) HandleMatch(c *gin.Context) {
	var req recipeService.MatchRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.ingredients.Match(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSubstitutes 酒花替代建議
func (h *Handler) HandleSubstitutes(c *gin.Context) {
	c.JSON(http.StatusOK, h.ingredients.Substitutes(c.Param("name")))
}

// HandleWaterProfile 水質風味傾向
func (h *Handler) HandleWaterProfile(c *gin.Context) {
	profile, suggestions, err := h.ingredients.Water(c.Param("name"))
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleListMash 所有糖化設定
func (h *Handler) HandleListMash(c *gin.Context) {
	profiles := h.ingredients.MashProfiles()
	c.JSON(http.StatusOK, gin.H{"count": len(profiles), "items": profiles})
}

// HandleMashProfile 單一糖化設定與步驟表
func (h *Handler) HandleMashProfile(c *gin.Context) {
	profile, suggestions, err := h.ingredients.MashProfile(c.Param("name"))
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleIngredientPrice 以偏好的貨幣與單位顯示價格
func (h *Handler) HandleIngredientPrice(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var q PriceQuery
	_ = c.ShouldBindQuery(&q)
	b, suggestions, err := h.prices.PriceOf(kind, c.Param("name"), q.Currency, q.Unit)
	if err != nil {
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, b)
}

// HandleConvertPrice 換算價格並列出步驟
func (h *Handler) HandleConvertPrice(c *gin.Context) {
	var req pricing.Request
	if !bindJSON(c, &req) {
		return
	}
	var q PriceQuery
	_ = c.ShouldBindQuery(&q)
	b, err := h.prices.Convert(req, q.Currency, q.Unit)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, b)
}

// HandleUpdateIngredient 修改欄位；寫入前先備份
func (h *Handler) HandleUpdateIngredient(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	common.LogInfo("收到欄位修改請求",
		zap.String("request_id", requestid.Get(c)),
		zap.String("kind", string(kind)),
		zap.String("name", c.Param("name")),
		zap.Int("fields", len(req.Fields)),
	)

	res, suggestions, err := h.updates.Update(c.Request.Context(), kind, c.Param("name"), req.Fields, req.Reason)
	if err != nil {
		if res != nil {
			// 已寫入但讀回不一致，仍回報寫入內容與備份位置
			ce := common.AsCustomError(err)
			c.AbortWithStatusJSON(ce.Status, gin.H{
				"code":    ce.Code,
				"message": ce.Message,
				"details": err.Error(),
				"result":  res,
			})
			return
		}
		respondError(c, err, suggestions)
		return
	}
	c.JSON(http.StatusOK, res)
}
