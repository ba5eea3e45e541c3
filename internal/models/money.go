package models

import "github.com/mmynk/tablepay/internal/money"

// Cents is the money type used by every model.
type Cents = money.Cents
