package service

import (
	"fmt"

	"food_app/internal/domain"
)

// describeItems names an order for humans: "Pho", "Pho and 2 other items" or "Your order".
func describeItems(items []domain.OrderItem) string {
	if len(items) == 0 {
		return "Your order"
	}
	name := items[0].Name
	if name == "" {
		name = "Item"
	}
	switch extra := len(items) - 1; extra {
	case 0:
		return name
	case 1:
		return name + " and 1 other item"
	default:
		return fmt.Sprintf("%s and %d other items", name, extra)
	}
}

// statusNotice builds the notification for a committed transition. Delivery
// after a pending return means the return was rejected.
func statusNotice(next, previous domain.OrderStatus, products string, refunded bool) (title, message string, ok bool) {
	switch next {
	case domain.StatusProcessing:
		return "Order is being processed", fmt.Sprintf("Your order %s is being processed.", products), true
	case domain.StatusShipped:
		return "Order is on its way", fmt.Sprintf("Your order %s is on its way to you.", products), true
	case domain.StatusDelivered:
		if previous == domain.StatusReturning {
			return "Return request rejected", fmt.Sprintf("The return request for your order %s has been rejected.", products), true
		}
		return "Order delivered successfully", fmt.Sprintf("Your order %s has been delivered successfully.", products), true
	case domain.StatusReturning:
		return "Return request received", fmt.Sprintf("We have received the return request for your order %s.", products), true
	case domain.StatusReturned:
		message = fmt.Sprintf("Your order %s has been returned successfully.", products)
		if refunded {
			message += " The amount has been refunded to your wallet."
		}
		return "Order returned", message, true
	case domain.StatusCancelled:
		return "Order cancelled", fmt.Sprintf("Your order %s has been cancelled.", products), true
	}
	return "", "", false
}
