// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// CheckoutQueueName is the durable queue receiving StayCheckedOutEvent.
const CheckoutQueueName = "stay.checked_out"

// StayCheckedOutEvent is published after a checkout transaction commits.
// Amounts are decimal strings so consumers never round through float64.
type StayCheckedOutEvent struct {
    HistoryID     uint64  `json:"history_id"`
    StayID        uint64  `json:"stay_id"`
    RoomID        uint64  `json:"room_id"`
    GuestID       uint64  `json:"guest_id"`
    CheckIn       string  `json:"check_in"`
    CheckOut      string  `json:"check_out"`
    AmountPaid    string  `json:"amount_paid"`
    PaymentMethod *string `json:"payment_method,omitempty"`
    Actor         string  `json:"actor"`
    CheckedOutAt  string  `json:"checked_out_at"`
}
