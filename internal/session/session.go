package session

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/fjod/go_pizza/internal/auth"
	"github.com/fjod/go_pizza/internal/cart"
	"github.com/fjod/go_pizza/internal/checkout"
	"github.com/fjod/go_pizza/internal/customizer"
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/ledger"
	"github.com/fjod/go_pizza/internal/pricing"
	"github.com/fjod/go_pizza/internal/promo"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrEmptySelection = errors.New("select at least one ingredient")
	ErrBuilderClosed  = errors.New("pizza constructor is not open")
	ErrNotSignedIn    = errors.New("not signed in")
)

const placedMessage = "Order placed! We will deliver in 30 minutes"

// MaxPendingNotifications caps the undrained notice queue. The oldest notices
// are dropped first.
const MaxPendingNotifications = 50

type CartView struct {
	Lines      []domain.CartLine `json:"lines"`
	ItemCount  int               `json:"item_count"`
	Promo      *domain.Promotion `json:"promo,omitempty"`
	UseBonuses bool              `json:"use_bonuses"`
	Quote      domain.Quote      `json:"quote"`
}

type BuilderView struct {
	Size        domain.Size         `json:"size"`
	Dough       domain.Dough        `json:"dough"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	Total       int64               `json:"total"`
}

type OrderView struct {
	domain.Order
	Progress int `json:"progress"`
}

type Options struct {
	WelcomeBonus int64
	Clock        func() time.Time
	// Notify receives every notification after the session lock is released.
	Notify func(domain.Notification)
}

// Session is the whole application state of one storefront visitor. All
// mutation goes through its methods, which serialize on the session mutex.
type Session struct {
	mu sync.Mutex

	id            string
	cart          *cart.Cart
	promo         *promo.Resolver
	useBonuses    bool
	user          *domain.User
	auth          *auth.Flow
	builder       *customizer.Selection
	ledger        *ledger.Ledger
	notifications []domain.Notification
	lastSeen      time.Time

	clock  func() time.Time
	notify func(domain.Notification)
}

func New(id string, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Notify == nil {
		opts.Notify = func(domain.Notification) {}
	}
	return &Session{
		id:       id,
		cart:     cart.New(),
		promo:    promo.NewResolver(),
		auth:     auth.NewFlow(opts.WelcomeBonus),
		ledger:   ledger.New(),
		lastSeen: opts.Clock(),
		clock:    opts.Clock,
		notify:   opts.Notify,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) touch() {
	s.lastSeen = s.clock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Cart

func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cartView()
}

func (s *Session) AddMenuItem(item domain.CatalogItem) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Add(cart.Standard{CatalogItem: item})
	return s.cartView()
}

func (s *Session) RemoveLine(id string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.cart.Remove(id); err != nil {
		return CartView{}, err
	}
	return s.cartView(), nil
}

func (s *Session) SetQuantity(id string, q int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.cart.SetQuantity(id, q); err != nil {
		return CartView{}, err
	}
	return s.cartView(), nil
}

func (s *Session) ApplyPromo(code string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if _, err := s.promo.Apply(code); err != nil {
		return CartView{}, err
	}
	return s.cartView(), nil
}

func (s *Session) ClearPromo() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.promo.Clear()
	return s.cartView()
}

func (s *Session) SetUseBonuses(use bool) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.useBonuses = use
	return s.cartView()
}

func (s *Session) cartView() CartView {
	v := CartView{
		Lines:      s.cart.Lines(),
		ItemCount:  s.cart.ItemCount(),
		UseBonuses: s.useBonuses,
		Quote:      s.quote(),
	}
	if p, ok := s.promo.Applied(); ok {
		v.Promo = &p
	}
	return v
}

func (s *Session) quote() domain.Quote {
	subtotal := s.cart.Subtotal()
	return pricing.Compute(subtotal, s.promo.DiscountAmount(subtotal), s.user, s.useBonuses)
}

// Constructor

// OpenBuilder starts a fresh customization with the default selection,
// discarding any unfinished one.
func (s *Session) OpenBuilder() BuilderView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.builder = customizer.NewSelection()
	return builderView(s.builder)
}

func (s *Session) Builder() (BuilderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builder == nil {
		return BuilderView{}, ErrBuilderClosed
	}
	return builderView(s.builder), nil
}

func (s *Session) ToggleIngredient(id string) (BuilderView, error) {
	return s.editBuilder(func(sel *customizer.Selection) error {
		sel.Toggle(id)
		return nil
	})
}

func (s *Session) SetSize(size domain.Size) (BuilderView, error) {
	return s.editBuilder(func(sel *customizer.Selection) error {
		return sel.SetSize(size)
	})
}

func (s *Session) SetDough(dough domain.Dough) (BuilderView, error) {
	return s.editBuilder(func(sel *customizer.Selection) error {
		return sel.SetDough(dough)
	})
}

// ConfirmBuilder adds the custom pizza to the cart as a new line and closes
// the constructor.
func (s *Session) ConfirmBuilder() (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.builder == nil {
		return CartView{}, ErrBuilderClosed
	}
	if s.builder.Empty() {
		return CartView{}, ErrEmptySelection
	}
	pizza := customizer.ToDisplayItem(s.builder, "custom-"+uuid.NewString())
	s.cart.Add(cart.Custom{CustomPizza: pizza})
	s.builder = nil
	return s.cartView(), nil
}

func (s *Session) CloseBuilder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.builder = nil
}

func (s *Session) editBuilder(edit func(*customizer.Selection) error) (BuilderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.builder == nil {
		return BuilderView{}, ErrBuilderClosed
	}
	if err := edit(s.builder); err != nil {
		return BuilderView{}, err
	}
	return builderView(s.builder), nil
}

func builderView(sel *customizer.Selection) BuilderView {
	return BuilderView{
		Size:        sel.Size,
		Dough:       sel.Dough,
		Ingredients: sel.Ingredients.Selected(),
		Total:       customizer.Total(sel),
	}
}

// Auth

func (s *Session) AuthStep() auth.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Step()
}

func (s *Session) SubmitPhone(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.auth.Step() == auth.StepDone {
		s.auth.Reset()
	}
	return s.auth.SubmitPhone(phone)
}

func (s *Session) SubmitCode(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.auth.SubmitCode(code)
}

func (s *Session) SubmitName(name string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	user, err := s.auth.SubmitName(name)
	if err != nil {
		return domain.User{}, err
	}
	s.user = user
	return *user, nil
}

func (s *Session) User() (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.user == nil {
		return domain.User{}, ErrNotSignedIn
	}
	return *s.user, nil
}

// Logout forgets the user. Bonus redemption is switched off with it.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.user = nil
	s.useBonuses = false
	s.auth.Reset()
}

// Checkout

// Checkout places the cart as an order. Commit, bonus settlement and the
// reset of cart, promotion and bonus flag happen under one lock.
func (s *Session) Checkout(details domain.DeliveryDetails) (OrderView, error) {
	s.mu.Lock()

	s.touch()
	if s.cart.Len() == 0 {
		s.mu.Unlock()
		return OrderView{}, ErrEmptyCart
	}
	details, err := checkout.Prepare(details)
	if err != nil {
		s.mu.Unlock()
		return OrderView{}, err
	}

	now := s.clock()
	q := s.quote()
	var code string
	if p, ok := s.promo.Applied(); ok {
		code = p.Code
	}
	order := s.ledger.Commit(s.cart.Lines(), q, code, &details, now)

	if s.user != nil {
		s.user.BonusBalance = pricing.SettleCheckout(s.user, s.useBonuses, q.BonusRedeemed, q.BonusEarned)
	}
	s.cart.Clear()
	s.promo.Clear()
	s.useBonuses = false

	n := domain.Notification{
		OrderID: order.ID,
		Kind:    domain.NotificationPlaced,
		Status:  order.Status,
		Message: placedMessage,
		At:      now,
	}
	s.queue(n)
	s.mu.Unlock()

	s.notify(n)
	return OrderView{Order: order, Progress: ledger.Progress(order)}, nil
}

// Orders

func (s *Session) Orders() []OrderView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	orders := s.ledger.List()
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderView{Order: o, Progress: ledger.Progress(o)})
	}
	return out
}

func (s *Session) Order(id uuid.UUID) (OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	o, err := s.ledger.Get(id)
	if err != nil {
		return OrderView{}, err
	}
	return OrderView{Order: o, Progress: ledger.Progress(o)}, nil
}

// RepeatOrder puts every line of a past order back into the cart with its
// original quantity.
func (s *Session) RepeatOrder(id uuid.UUID) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	o, err := s.ledger.Get(id)
	if err != nil {
		return CartView{}, err
	}
	for _, line := range o.Lines {
		item := itemFromLine(line.LineItem)
		for range line.Quantity {
			s.cart.Add(item)
		}
	}
	return s.cartView(), nil
}

func (s *Session) AdvanceOrder(id uuid.UUID) (OrderView, error) {
	return s.transition(id, s.ledger.Advance)
}

func (s *Session) CancelOrder(id uuid.UUID) (OrderView, error) {
	return s.transition(id, s.ledger.Cancel)
}

func (s *Session) transition(id uuid.UUID, fn func(uuid.UUID, time.Time) (domain.Order, domain.Notification, error)) (OrderView, error) {
	s.mu.Lock()
	s.touch()
	o, n, err := fn(id, s.clock())
	if err != nil {
		s.mu.Unlock()
		return OrderView{}, err
	}
	s.queue(n)
	s.mu.Unlock()

	s.notify(n)
	return OrderView{Order: o, Progress: ledger.Progress(o)}, nil
}

// Tick runs one minute of the delivery countdown.
func (s *Session) Tick() []domain.Notification {
	s.mu.Lock()
	notes := s.ledger.Tick(s.clock())
	s.queue(notes...)
	s.mu.Unlock()

	for _, n := range notes {
		s.notify(n)
	}
	return notes
}

// queue appends pending notices. Callers hold s.mu.
func (s *Session) queue(notes ...domain.Notification) {
	s.notifications = append(s.notifications, notes...)
	if over := len(s.notifications) - MaxPendingNotifications; over > 0 {
		s.notifications = append([]domain.Notification(nil), s.notifications[over:]...)
	}
}

// DrainNotifications hands out pending one-time notices and forgets them.
func (s *Session) DrainNotifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	out := s.notifications
	s.notifications = nil
	return out
}

func (s *Session) seed(menu func(int64) (domain.CatalogItem, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Seed(s.clock(), menu)
}

// itemFromLine rebuilds a cart item from an order line. Menu entries are
// keyed by their numeric catalog id.
func itemFromLine(li domain.LineItem) cart.Item {
	if id, err := strconv.ParseInt(li.ID, 10, 64); err == nil {
		return cart.Standard{CatalogItem: domain.CatalogItem{
			ID:          id,
			Name:        li.Name,
			Description: li.Description,
			Emoji:       li.Emoji,
			Price:       li.Price,
		}}
	}
	return cart.Custom{CustomPizza: domain.CustomPizza{
		ID:          li.ID,
		Name:        li.Name,
		Description: li.Description,
		Emoji:       li.Emoji,
		Price:       li.Price,
	}}
}
