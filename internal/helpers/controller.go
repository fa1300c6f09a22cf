package helpers

import (
	"io"
	"strconv"
	"strings"

	"propt-api-io/api/internal/common"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const maxPageSize = 100

// GetPaginationArgs extracts pagination parameters from HTTP request
func GetPaginationArgs(c *gin.Context) util.PaginationArgs {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	sort := c.DefaultQuery("sort", "created_at_desc")

	if limit <= 0 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if skip < 0 {
		skip = 0
	}

	return util.PaginationArgs{
		Limit: limit,
		Skip:  skip,
		Sort:  sort,
	}
}

// GetPropertyFilter reads the listing filters from the query string.
func GetPropertyFilter(c *gin.Context) (models.PropertyFilter, error) {
	var filter models.PropertyFilter

	if v := c.Query("type"); v != "" {
		t := models.PropertyType(strings.ToLower(v))
		filter.Type = &t
	}
	if v := c.Query("status"); v != "" {
		s := models.PropertyStatus(strings.ToLower(v))
		filter.Status = &s
	}
	for name, dst := range map[string]**decimal.Decimal{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errs.InvalidArgumentf("invalid %s %q", name, raw)
		}
		*dst = &price
	}
	filter.Location = strings.TrimSpace(c.Query("location"))
	if v := c.Query("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errs.InvalidArgumentf("invalid verified flag %q", v)
		}
		filter.Verified = &verified
	}

	return filter, nil
}

// BindAndValidate decodes the JSON body into v and runs struct validation.
func BindAndValidate(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		util.HandleServiceError(c, errs.InvalidArgumentf("invalid request body: %v", err))
		return false
	}
	if err := common.Validate.Struct(v); err != nil {
		util.HandleServiceError(c, errs.InvalidArgumentf("%v", err))
		return false
	}
	return true
}

// BindOptional is BindAndValidate for endpoints whose body may be absent.
// An empty body leaves v untouched and reports true, whatever the Content-Length.
func BindOptional(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		util.HandleServiceError(c, errs.InvalidArgumentf("invalid request body: %v", err))
		return false
	}
	if err := common.Validate.Struct(v); err != nil {
		util.HandleServiceError(c, errs.InvalidArgumentf("%v", err))
		return false
	}
	return true
}
