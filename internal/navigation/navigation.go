package navigation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// 畫面路由
const (
	RouteHome          = "home"
	RouteProductDetail = "product_detail"
	RouteCart          = "cart"
	RouteCheckout      = "checkout"
)

var ErrEmptyStack = errors.New("navigation stack is empty")

// Route 單一路由, product_detail需帶商品ID
type Route struct {
	Name      string
	ProductID int
}

func (r Route) String() string {
	if r.Name == RouteProductDetail {
		return fmt.Sprintf("%s/%d", r.Name, r.ProductID)
	}
	return r.Name
}

// ParseRoute 解析路由字串
// 支援 home, product_detail/{id}, cart, checkout
func ParseRoute(s string) (Route, error) {
	switch s {
	case RouteHome, RouteCart, RouteCheckout:
		return Route{Name: s}, nil
	}
	if rest, ok := strings.CutPrefix(s, RouteProductDetail+"/"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil {
			return Route{}, fmt.Errorf("invalid product id in route %q", s)
		}
		return Route{Name: RouteProductDetail, ProductID: id}, nil
	}
	return Route{}, fmt.Errorf("unknown route %q", s)
}

// Navigator 簡單的stack導航
// 啟動時停在home, home不可被pop掉
type Navigator struct {
	stack []Route
}

func NewNavigator() *Navigator {
	return &Navigator{stack: []Route{{Name: RouteHome}}}
}

func (n *Navigator) Current() Route {
	return n.stack[len(n.stack)-1]
}

func (n *Navigator) Push(r Route) {
	n.stack = append(n.stack, r)
}

// Pop 回上一頁, 已在根畫面時維持不動
func (n *Navigator) Pop() Route {
	if len(n.stack) > 1 {
		n.stack = n.stack[:len(n.stack)-1]
	}
	return n.Current()
}

// PopToRoot 回到home
func (n *Navigator) PopToRoot() Route {
	n.stack = n.stack[:1]
	return n.Current()
}

func (n *Navigator) Depth() int {
	return len(n.stack)
}
