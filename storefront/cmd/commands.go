package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/auth"
	"github.com/fjod/go_storefront/storefront/internal/catalog"
	"github.com/fjod/go_storefront/storefront/internal/orders"
)

var errUsage = errors.New("usage")

const helpText = `commands:
  products [category]          list products, optionally by category
  categories                   list categories
  search <query>               search the catalog (debounced)
  find <query>                 filter loaded products in the selected category
  sort <price-asc|price-desc|rating>
  product <id>                 show one product
  cart | add <id> [qty] | qty <id> <n> | remove <id> | clear
  favs | fav <id> | unfav-all
  login <email> <password> | signup <email> <password> <confirm> | logout | whoami
  checkout                     place an order for the cart and pay
  orders | pay <order-id> | delete <order-id>
  quit`

func (s *shell) dispatch(ctx context.Context, cmd string, args []string) error {
	a := s.app
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "products":
		var err error
		if len(args) > 0 {
			err = a.Catalog.SetCategory(ctx, strings.Join(args, " "))
		} else {
			err = a.Catalog.FetchProducts(ctx)
		}
		if err != nil {
			return err
		}
		s.printProducts(a.Catalog.FilteredProducts())
	case "categories":
		if err := a.Catalog.FetchCategories(ctx); err != nil {
			return err
		}
		for _, c := range a.Catalog.Categories() {
			fmt.Fprintln(s.out, " ", c)
		}
	case "search":
		return s.search(ctx, strings.Join(args, " "))
	case "find":
		a.Catalog.SearchProducts(strings.Join(args, " "))
		s.printProducts(a.Catalog.FilteredProducts())
	case "sort":
		if len(args) != 1 {
			return errUsage
		}
		key, ok := catalog.ParseSortKey(args[0])
		if !ok {
			return fmt.Errorf("%w: unknown sort key %q", errUsage, args[0])
		}
		a.Catalog.SortProducts(key)
		s.printProducts(a.Catalog.FilteredProducts())
	case "product":
		p, err := s.product(ctx, args)
		if err != nil {
			return err
		}
		s.printProducts([]domain.Product{*p})
		fmt.Fprintln(s.out, "   ", p.Description)
	case "cart":
		s.printCart()
	case "add":
		p, err := s.product(ctx, args)
		if err != nil {
			return err
		}
		qty := 1
		if len(args) > 1 {
			if qty, err = strconv.Atoi(args[1]); err != nil {
				return errUsage
			}
		}
		if err := a.Cart.AddItem(ctx, *p, qty); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s added to cart\n", p.Title)
	case "qty":
		id, qty, err := twoInts(args)
		if err != nil {
			return err
		}
		if err := a.Cart.UpdateItemQuantity(ctx, id, int(qty)); err != nil {
			return err
		}
		s.printCart()
	case "remove":
		id, err := oneInt(args)
		if err != nil {
			return err
		}
		if err := a.Cart.RemoveItem(ctx, id); err != nil {
			return err
		}
		s.printCart()
	case "clear":
		return a.Cart.ClearCart(ctx)
	case "favs":
		s.printProducts(a.Favorites.Items())
	case "fav":
		p, err := s.product(ctx, args)
		if err != nil {
			return err
		}
		if err := a.Favorites.ToggleFavorite(ctx, *p); err != nil {
			return err
		}
		if a.Favorites.IsFavorite(p.ID) {
			fmt.Fprintf(s.out, "%s added to favorites\n", p.Title)
		} else {
			fmt.Fprintf(s.out, "%s removed from favorites\n", p.Title)
		}
	case "unfav-all":
		return a.Favorites.ResetFavorite(ctx)
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		return a.Session.Login(ctx, args[0], args[1])
	case "signup":
		if len(args) != 3 {
			return errUsage
		}
		return a.Session.Signup(ctx, args[0], args[1], args[2])
	case "logout":
		return a.Session.Logout(ctx)
	case "whoami":
		if u := a.Session.User(); u != nil {
			fmt.Fprintln(s.out, u.Email)
		} else {
			fmt.Fprintln(s.out, "not signed in")
		}
	case "checkout":
		return s.checkout(ctx)
	case "orders":
		list, err := a.Orders.ListOrders(ctx)
		if err != nil {
			return err
		}
		s.printOrders(list)
	case "pay":
		id, err := oneInt(args)
		if err != nil {
			return err
		}
		order, err := a.Orders.GetOrder(id)
		if err != nil {
			return err
		}
		bundle, err := a.Orders.ResumePayment(ctx, order)
		if err != nil {
			return err
		}
		return s.confirm(ctx, bundle)
	case "delete":
		id, err := oneInt(args)
		if err != nil {
			return err
		}
		if err := a.Orders.DeleteOrder(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "The order has been successfully deleted.")
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	return nil
}

func (s *shell) search(ctx context.Context, query string) error {
	done := make(chan error, 1)
	s.app.Search.Call(ctx, func(ctx context.Context) {
		done <- s.app.Catalog.SearchProductsRealTime(ctx, query)
	})
	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	if len([]rune(query)) < catalog.MinSearchLength {
		fmt.Fprintf(s.out, "type at least %d characters\n", catalog.MinSearchLength)
		return nil
	}
	s.printProducts(s.app.Catalog.FilteredProducts())
	return nil
}

func (s *shell) checkout(ctx context.Context) error {
	bundle, err := s.app.Orders.PlaceOrder(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "order #%d created, total $%s\n", bundle.OrderID, bundle.Total.StringFixed(2))
	return s.confirm(ctx, bundle)
}

func (s *shell) confirm(ctx context.Context, bundle *domain.PaymentIntentBundle) error {
	if err := s.app.Orders.ConfirmPayment(ctx, bundle); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Your payment was processed successfully.")
	return nil
}

// product resolves the first argument to a product, preferring the loaded
// catalog over a request.
func (s *shell) product(ctx context.Context, args []string) (*domain.Product, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, errUsage
	}
	for _, p := range s.app.Catalog.Products() {
		if p.ID == id {
			return &p, nil
		}
	}
	return s.app.Catalog.GetProduct(ctx, id)
}

func (s *shell) printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(s.out, "  no products")
		return
	}
	for _, p := range products {
		fav := " "
		if s.app.Favorites.IsFavorite(p.ID) {
			fav = "*"
		}
		fmt.Fprintf(s.out, "%s %3d  %-50.50s $%8.2f  %s (%d)\n",
			fav, p.ID, p.Title, p.Price, stars(p.Rating), p.Rating.Count)
	}
}

func (s *shell) printCart() {
	items := s.app.Cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "  your cart is empty")
		return
	}
	for _, l := range items {
		fmt.Fprintf(s.out, "  %3d  %-50.50s %2d x $%.2f\n", l.Product.ID, l.Product.Title, l.Quantity, l.Product.Price)
	}
	subtotal := s.app.Cart.TotalPrice()
	shipping := orders.Shipping(subtotal)
	fmt.Fprintf(s.out, "  %d items, subtotal $%s, shipping $%s, total $%s\n",
		s.app.Cart.TotalItems(), subtotal.StringFixed(2), shipping.StringFixed(2), subtotal.Add(shipping).StringFixed(2))
}

func (s *shell) printOrders(list []*domain.Order) {
	if len(list) == 0 {
		fmt.Fprintln(s.out, "  no orders yet")
		return
	}
	for _, o := range list {
		fmt.Fprintf(s.out, "  #%-5d %s  %-8s $%s  %d items\n",
			o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.PaymentStatus, o.TotalPrice.StringFixed(2), len(o.Items))
	}
}

func stars(r domain.Rating) string {
	out := strings.Repeat("★", r.FullStars())
	if r.HasHalfStar() {
		out += "½"
	}
	return out
}

// messageFor returns the text shown for err: form errors verbatim, session
// errors as the session recorded them, everything else as order errors.
func (s *shell) messageFor(err error) string {
	var ve *auth.ValidationError
	switch {
	case errors.Is(err, errUsage):
		return err.Error() + ", type 'help'"
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, auth.ErrLoginFailed), errors.Is(err, auth.ErrSignupFailed),
		errors.Is(err, auth.ErrLogoutFailed), errors.Is(err, auth.ErrSessionUnavailable):
		if msg := s.app.Session.LastError(); msg != "" {
			return msg
		}
		return err.Error()
	case errors.Is(err, catalog.ErrFetchProducts), errors.Is(err, catalog.ErrFetchProduct),
		errors.Is(err, catalog.ErrFetchCategories), errors.Is(err, catalog.ErrFetchCategory):
		return err.Error()
	default:
		return orders.UserMessage(err)
	}
}

func oneInt(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errUsage
	}
	return n, nil
}

func twoInts(args []string) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, errUsage
	}
	a, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, errUsage
	}
	b, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, errUsage
	}
	return a, b, nil
}
