package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// pageParams reads page and page_size. page is clamped to >= 1 and a
// missing page_size falls back to def; an explicit page_size is capped
// at max but otherwise passed through for the service to validate.
func pageParams(c *fiber.Ctx, def, max int) (page, size int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size = c.QueryInt("page_size", def)
	if max > 0 && size > max {
		size = max
	}
	return page, size
}

// SetPageLinkHeaders adds RFC 8288 Link headers for page-numbered
// responses. Query parameters other than page are preserved.
func SetPageLinkHeaders(c *fiber.Ctx, page, pageSize, totalPages int) {
	base := c.Path()
	params := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		params.Add(string(k), string(v))
	})
	params.Set("page_size", strconv.Itoa(pageSize))

	link := func(p int, rel string) string {
		params.Set("page", strconv.Itoa(p))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, params.Encode(), rel)
	}

	links := []string{link(1, "first")}
	if page > 1 {
		prev := page - 1
		if prev > totalPages {
			prev = totalPages
		}
		links = append(links, link(prev, "prev"))
	}
	if page < totalPages {
		links = append(links, link(page+1, "next"))
	}
	links = append(links, link(totalPages, "last"))

	c.Set("Link", strings.Join(links, ", "))
}
