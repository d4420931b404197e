package session

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fjod/go_pizza/internal/domain"
)

type pricingTestContext struct {
	session *Session
	menu    map[string]domain.CatalogItem
	view    CartView
	err     error
}

func (c *pricingTestContext) reset() {
	c.session = New("feature", Options{})
	c.menu = make(map[string]domain.CatalogItem)
	c.view = CartView{}
	c.err = nil
}

func (c *pricingTestContext) theMenuItemPriced(name string, price int) error {
	c.menu[name] = domain.CatalogItem{ID: int64(len(c.menu) + 1), Name: name, Price: int64(price), Category: domain.CategoryPizza}
	return nil
}

func (c *pricingTestContext) iAmSignedInWithABonusBalanceOf(balance int) error {
	c.session = New("feature", Options{WelcomeBonus: int64(balance)})
	if err := c.session.SubmitPhone("79991234567"); err != nil {
		return err
	}
	if err := c.session.SubmitCode("1234"); err != nil {
		return err
	}
	_, err := c.session.SubmitName("Anna")
	return err
}

func (c *pricingTestContext) iAddToTheCart(name string) error {
	item, ok := c.menu[name]
	if !ok {
		return fmt.Errorf("no menu item %q", name)
	}
	c.view = c.session.AddMenuItem(item)
	return nil
}

func (c *pricingTestContext) iApplyPromoCode(code string) error {
	view, err := c.session.ApplyPromo(code)
	c.err = err
	if err == nil {
		c.view = view
	}
	return nil
}

func (c *pricingTestContext) iChooseToUseBonuses() error {
	c.view = c.session.SetUseBonuses(true)
	return nil
}

func (c *pricingTestContext) iCheckOutTo(address string) error {
	_, c.err = c.session.Checkout(domain.DeliveryDetails{Address: address})
	c.view = c.session.Cart()
	return nil
}

func (c *pricingTestContext) theDiscountIs(want int) error {
	return expectInt("discount", c.session.Cart().Quote.Discount, want)
}

func (c *pricingTestContext) theFinalTotalIs(want int) error {
	return expectInt("final total", c.session.Cart().Quote.Total, want)
}

func (c *pricingTestContext) theBonusEarnedIs(want int) error {
	return expectInt("bonus earned", c.session.Cart().Quote.BonusEarned, want)
}

func (c *pricingTestContext) theBonusRedemptionIs(want int) error {
	return expectInt("bonus redemption", c.session.Cart().Quote.BonusRedeemed, want)
}

func (c *pricingTestContext) myBonusBalanceIs(want int) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	user, err := c.session.User()
	if err != nil {
		return err
	}
	return expectInt("bonus balance", user.BonusBalance, want)
}

func (c *pricingTestContext) theCartIsEmpty() error {
	if n := len(c.view.Lines); n != 0 {
		return fmt.Errorf("expected empty cart, got %d lines", n)
	}
	if c.view.UseBonuses {
		return fmt.Errorf("expected bonus flag to be reset")
	}
	return nil
}

func (c *pricingTestContext) noPromotionIsApplied() error {
	if c.view.Promo != nil {
		return fmt.Errorf("expected no promotion, got %s", c.view.Promo.Code)
	}
	return nil
}

func (c *pricingTestContext) thePromoIsRejected() error {
	if c.err == nil {
		return fmt.Errorf("expected promo to be rejected")
	}
	return nil
}

func (c *pricingTestContext) theCartHasLineWithQuantity(lines, quantity int) error {
	view := c.session.Cart()
	if len(view.Lines) != lines {
		return fmt.Errorf("expected %d lines, got %d", lines, len(view.Lines))
	}
	if view.Lines[0].Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, view.Lines[0].Quantity)
	}
	return nil
}

func (c *pricingTestContext) checkoutFailsWith(msg string) error {
	if c.err == nil {
		return fmt.Errorf("expected checkout to fail")
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, c.err.Error())
	}
	return nil
}

func expectInt(what string, got int64, want int) error {
	if got != int64(want) {
		return fmt.Errorf("expected %s %d, got %d", what, want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the menu item "([^"]*)" priced (\d+)$`, tc.theMenuItemPriced)
	ctx.Step(`^I am signed in with a bonus balance of (\d+)$`, tc.iAmSignedInWithABonusBalanceOf)

	// When steps
	ctx.Step(`^I add "([^"]*)" to the cart$`, tc.iAddToTheCart)
	ctx.Step(`^I apply promo code "([^"]*)"$`, tc.iApplyPromoCode)
	ctx.Step(`^I choose to use bonuses$`, tc.iChooseToUseBonuses)
	ctx.Step(`^I check out to "([^"]*)"$`, tc.iCheckOutTo)

	// Then steps
	ctx.Step(`^the discount is (\d+)$`, tc.theDiscountIs)
	ctx.Step(`^the final total is (\d+)$`, tc.theFinalTotalIs)
	ctx.Step(`^the bonus earned is (\d+)$`, tc.theBonusEarnedIs)
	ctx.Step(`^the bonus redemption is (\d+)$`, tc.theBonusRedemptionIs)
	ctx.Step(`^my bonus balance is (\d+)$`, tc.myBonusBalanceIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^no promotion is applied$`, tc.noPromotionIsApplied)
	ctx.Step(`^the promo is rejected$`, tc.thePromoIsRejected)
	ctx.Step(`^the cart has (\d+) line with quantity (\d+)$`, tc.theCartHasLineWithQuantity)
	ctx.Step(`^checkout fails with "([^"]*)"$`, tc.checkoutFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
