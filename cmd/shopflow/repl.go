package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/appcontext"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/navigation"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/viewmodel"
	"golang.org/x/sync/errgroup"
)

const loadTimeout = 45 * time.Second

// repl 四個畫面的文字介面: home, product_detail/{id}, cart, checkout
// 畫面狀態全部來自viewmodel, 這層只負責輸入輸出
type repl struct {
	app *appcontext.ApplicationContext
	in  io.Reader
	out io.Writer
	nav *navigation.Navigator

	home     *viewmodel.HomeViewModel
	detail   *viewmodel.ProductDetailViewModel
	cart     *viewmodel.CartViewModel
	checkout *viewmodel.CheckoutViewModel
}

func newREPL(app *appcontext.ApplicationContext, in io.Reader, out io.Writer) *repl {
	return &repl{
		app: app,
		in:  in,
		out: out,
		nav: navigation.NewNavigator(),
	}
}

func (r *repl) Run(ctx context.Context) error {
	r.warmCache(ctx)

	r.home = viewmodel.NewHomeViewModel(r.app.ProductService, r.app.CartService, r.app.Logger)
	defer r.home.Close()
	r.cart = viewmodel.NewCartViewModel(r.app.CartService, r.app.Logger)
	defer r.cart.Close()

	r.loadAndWait(func() {
		r.home.LoadProducts()
		r.home.LoadCategories()
	})

	r.render()

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprintf(r.out, "[%s] > ", r.nav.Current())
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		r.dispatch(ctx, line)
	}
}

// warmCache 啟動時並行預載商品與分類, 失敗只記log
func (r *repl) warmCache(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for res := range r.app.ProductService.GetProducts(gctx) {
			if res.Status == model.StatusError {
				return fmt.Errorf("prefetch products: %s", res.Message)
			}
		}
		return nil
	})
	g.Go(func() error {
		for res := range r.app.ProductService.GetCategories(gctx) {
			if res.Status == model.StatusError {
				return fmt.Errorf("prefetch categories: %s", res.Message)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		r.app.Logger.Warn().Err(err).Msg("catalog prefetch failed")
	}
}

func (r *repl) dispatch(ctx context.Context, line string) {
	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch r.nav.Current().Name {
	case navigation.RouteHome:
		r.dispatchHome(ctx, cmd, args)
	case navigation.RouteProductDetail:
		r.dispatchDetail(ctx, cmd)
	case navigation.RouteCart:
		r.dispatchCart(ctx, cmd, args)
	case navigation.RouteCheckout:
		r.dispatchCheckout(ctx, cmd, args)
	}
}

func (r *repl) dispatchHome(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "list":
		r.render()
	case "reload":
		r.loadAndWait(r.home.LoadProducts)
		r.render()
	case "search":
		r.home.SearchProducts(strings.Join(args, " "))
		r.render()
	case "category":
		category := strings.Join(args, " ")
		if category == viewmodel.CategoryAll {
			r.home.FilterByCategory(category)
		} else {
			r.loadAndWait(func() { r.home.FilterByCategory(category) })
		}
		r.render()
	case "categories":
		for _, c := range r.home.UIState().Get().Categories {
			fmt.Fprintln(r.out, "  "+c)
		}
	case "open":
		if len(args) != 1 {
			fmt.Fprintln(r.out, "usage: open <product id>")
			return
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(r.out, "usage: open <product id>")
			return
		}
		r.openDetail(id)
	case "cart":
		r.nav.Push(navigation.Route{Name: navigation.RouteCart})
		r.render()
	default:
		fmt.Fprintln(r.out, "commands: list, reload, search <q>, category <c>, categories, open <id>, cart, quit")
	}
}

func (r *repl) openDetail(id int) {
	r.detail = viewmodel.NewProductDetailViewModel(r.app.ProductService, r.app.CartService, r.app.Logger)
	waitTransition(r.detail.UIState(), func(s viewmodel.ProductDetailUIState) bool {
		return s.IsLoading
	}, func(s viewmodel.ProductDetailUIState) bool {
		return !s.IsLoading
	}, func() { r.detail.Load(id) })
	r.nav.Push(navigation.Route{Name: navigation.RouteProductDetail, ProductID: id})
	r.render()
}

func (r *repl) dispatchDetail(ctx context.Context, cmd string) {
	switch cmd {
	case "+":
		r.detail.IncrementQuantity()
		r.render()
	case "-":
		r.detail.DecrementQuantity()
		r.render()
	case "add":
		r.detail.AddToCart(ctx)
		state := r.detail.UIState().Get()
		if state.ShowAddedToCart {
			fmt.Fprintln(r.out, "added to cart")
			r.detail.ClearAddedToCartMessage()
		} else if state.Error != "" {
			fmt.Fprintln(r.out, state.Error)
		}
	case "cart":
		r.nav.Push(navigation.Route{Name: navigation.RouteCart})
		r.render()
	case "back":
		r.closeDetail()
		r.nav.Pop()
		r.render()
	default:
		fmt.Fprintln(r.out, "commands: +, -, add, cart, back, quit")
	}
}

func (r *repl) closeDetail() {
	if r.detail != nil {
		r.detail.Close()
		r.detail = nil
	}
}

func (r *repl) dispatchCart(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "list":
		r.render()
	case "set":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "usage: set <product id> <quantity>")
			return
		}
		id, err1 := strconv.Atoi(args[0])
		qty, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			fmt.Fprintln(r.out, "usage: set <product id> <quantity>")
			return
		}
		if item, ok := r.findCartItem(id); ok {
			r.cart.UpdateQuantity(ctx, item, qty)
		}
		r.render()
	case "rm":
		if len(args) != 1 {
			fmt.Fprintln(r.out, "usage: rm <product id>")
			return
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(r.out, "usage: rm <product id>")
			return
		}
		if item, ok := r.findCartItem(id); ok {
			r.cart.RemoveItem(ctx, item)
		}
		r.render()
	case "clear":
		r.cart.ClearCart(ctx)
		r.render()
	case "checkout":
		r.checkout = viewmodel.NewCheckoutViewModel(r.app.CartService, r.app.Cf.CheckoutDelay, r.app.Logger)
		r.nav.Push(navigation.Route{Name: navigation.RouteCheckout})
		r.render()
	case "back":
		r.nav.Pop()
		r.render()
	default:
		fmt.Fprintln(r.out, "commands: list, set <id> <q>, rm <id>, clear, checkout, back, quit")
	}
}

func (r *repl) findCartItem(productID int) (model.CartItem, bool) {
	for _, item := range r.cart.Items().Get() {
		if item.ProductID == productID {
			return item, true
		}
	}
	fmt.Fprintf(r.out, "product %d is not in the cart\n", productID)
	return model.CartItem{}, false
}

func (r *repl) dispatchCheckout(ctx context.Context, cmd string, args []string) {
	value := strings.Join(args, " ")
	switch cmd {
	case "name":
		r.checkout.UpdateName(value)
	case "email":
		r.checkout.UpdateEmail(value)
	case "address":
		r.checkout.UpdateAddress(value)
	case "city":
		r.checkout.UpdateCity(value)
	case "zip":
		r.checkout.UpdateZipCode(value)
	case "card":
		r.checkout.UpdateCardNumber(value)
	case "show":
		r.render()
	case "submit":
		fmt.Fprintln(r.out, "processing order...")
		r.checkout.PlaceOrder(ctx, func() {
			state := r.checkout.UIState().Get()
			fmt.Fprintf(r.out, "order placed, confirmation %s\n", state.OrderID)
		})
		state := r.checkout.UIState().Get()
		if len(state.Errors) > 0 {
			for _, e := range state.Errors {
				fmt.Fprintln(r.out, "  "+e)
			}
			return
		}
		if state.OrderPlaced {
			r.checkout.Close()
			r.checkout = nil
			r.closeDetail()
			r.nav.PopToRoot()
			r.render()
		}
	case "back":
		r.checkout.Close()
		r.checkout = nil
		r.nav.Pop()
		r.render()
	default:
		fmt.Fprintln(r.out, "commands: name|email|address|city|zip|card <value>, show, submit, back, quit")
	}
}

func (r *repl) render() {
	switch r.nav.Current().Name {
	case navigation.RouteHome:
		r.renderHome()
	case navigation.RouteProductDetail:
		r.renderDetail()
	case navigation.RouteCart:
		r.renderCart()
	case navigation.RouteCheckout:
		r.renderCheckout()
	}
}

func (r *repl) renderHome() {
	state := r.home.UIState().Get()
	if state.Error != "" {
		fmt.Fprintln(r.out, state.Error)
		return
	}
	fmt.Fprintf(r.out, "-- %s (%d products, cart: %d) --\n",
		state.SelectedCategory, len(state.FilteredProducts), r.home.CartCount().Get())
	for _, p := range state.FilteredProducts {
		fmt.Fprintf(r.out, "  [%d] %s  $%s\n", p.ID, p.Title, p.Price.StringFixed(2))
	}
}

func (r *repl) renderDetail() {
	state := r.detail.UIState().Get()
	if state.Error != "" {
		fmt.Fprintln(r.out, state.Error)
		return
	}
	if state.Product == nil {
		return
	}
	p := state.Product
	fmt.Fprintf(r.out, "-- %s --\n", p.Title)
	fmt.Fprintf(r.out, "  price: $%s  category: %s  rating: %s (%d)\n",
		p.Price.StringFixed(2), p.Category, p.Rating.Rate.String(), p.Rating.Count)
	fmt.Fprintf(r.out, "  %s\n", p.Description)
	fmt.Fprintf(r.out, "  quantity: %d\n", state.Quantity)
}

func (r *repl) renderCart() {
	items := r.cart.Items().Get()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "cart is empty")
		return
	}
	fmt.Fprintln(r.out, "-- cart --")
	for _, item := range items {
		fmt.Fprintf(r.out, "  [%d] %s  $%s x %d = $%s\n",
			item.ProductID, item.Title, item.Price.StringFixed(2), item.Quantity, item.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(r.out, "  total: $%s\n", r.cart.Total().Get().StringFixed(2))
}

func (r *repl) renderCheckout() {
	state := r.checkout.UIState().Get()
	fmt.Fprintln(r.out, "-- checkout --")
	fmt.Fprintf(r.out, "  name: %s\n  email: %s\n  address: %s\n  city: %s\n  zip: %s\n  card: %s\n",
		state.Name, state.Email, state.Address, state.City, state.ZipCode, state.CardNumber)
	fmt.Fprintf(r.out, "  total: $%s\n", r.checkout.Total().Get().StringFixed(2))
}

// loadAndWait 觸發home載入並等待本輪查詢結束
func (r *repl) loadAndWait(trigger func()) {
	waitTransition(r.home.UIState(), func(s viewmodel.HomeUIState) bool {
		return s.IsLoading
	}, func(s viewmodel.HomeUIState) bool {
		return !s.IsLoading
	}, trigger)
}

// waitTransition 先訂閱再觸發, 等待狀態先滿足entered再滿足settled
// 避免以觸發前的舊狀態誤判完成
func waitTransition[T any](obs *observable.Observable[T], entered, settled func(T) bool, trigger func()) bool {
	done := make(chan struct{}, 1)
	var sawEntered atomic.Bool
	unsubscribe := obs.Subscribe(func(v T) {
		if entered(v) {
			sawEntered.Store(true)
			return
		}
		if sawEntered.Load() && settled(v) {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	trigger()

	select {
	case <-done:
		return true
	case <-time.After(loadTimeout):
		return false
	}
}
