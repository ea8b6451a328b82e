package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	testCases := []struct {
		input    string
		expected Route
		wantErr  bool
	}{
		{input: "home", expected: Route{Name: RouteHome}},
		{input: "cart", expected: Route{Name: RouteCart}},
		{input: "checkout", expected: Route{Name: RouteCheckout}},
		{input: "product_detail/7", expected: Route{Name: RouteProductDetail, ProductID: 7}},
		{input: "product_detail/abc", wantErr: true},
		{input: "product_detail/", wantErr: true},
		{input: "product_detail", wantErr: true},
		{input: "settings", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			r, err := ParseRoute(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, r)
		})
	}
}

func TestRouteString(t *testing.T) {
	require.Equal(t, "home", Route{Name: RouteHome}.String())
	require.Equal(t, "product_detail/3", Route{Name: RouteProductDetail, ProductID: 3}.String())
}

func TestNavigatorStartsAtHome(t *testing.T) {
	n := NewNavigator()
	require.Equal(t, RouteHome, n.Current().Name)
	require.Equal(t, 1, n.Depth())
}

func TestNavigatorPushPop(t *testing.T) {
	n := NewNavigator()

	n.Push(Route{Name: RouteProductDetail, ProductID: 5})
	n.Push(Route{Name: RouteCart})
	require.Equal(t, RouteCart, n.Current().Name)
	require.Equal(t, 3, n.Depth())

	back := n.Pop()
	require.Equal(t, RouteProductDetail, back.Name)
	require.Equal(t, 5, back.ProductID)
}

func TestNavigatorPopAtRoot(t *testing.T) {
	n := NewNavigator()

	// 根畫面不可被pop掉
	back := n.Pop()
	require.Equal(t, RouteHome, back.Name)
	require.Equal(t, 1, n.Depth())
}

func TestNavigatorPopToRoot(t *testing.T) {
	n := NewNavigator()
	n.Push(Route{Name: RouteCart})
	n.Push(Route{Name: RouteCheckout})

	back := n.PopToRoot()
	require.Equal(t, RouteHome, back.Name)
	require.Equal(t, 1, n.Depth())
}
