package ledger

import (
	"github.com/usename-Poezd/transaction-service/internal/models"
)

// InflowTypes require amount >= 0.
var InflowTypes = []string{
	models.InflowTest,
	models.InflowOther,
	models.InflowCreate,
	models.InflowRefund,
	models.InflowPayment,
	models.InflowGroup,
	models.InflowRefBonus,
	models.InflowUserJob,
}

// OutflowTypes require amount <= 0 and a sufficient balance.
var OutflowTypes = []string{
	models.OutflowTest,
	models.OutflowOther,
	models.OutflowOrder,
	models.OutflowCancelRefBonus,
	models.OutflowCancelRefund,
	models.OutflowDestroy,
}

// PremiumStatusTypes are the inflows that trigger a premium tier
// recomputation.
var PremiumStatusTypes = []string{
	models.InflowPayment,
	models.InflowCreate,
}

// CreateInput carries the fields of one posting to append.
type CreateInput struct {
	UserID    uint
	Type      string
	Amount    float64
	Currency  string
	Comment   string
	PaymentID *uint
	OrderIDs  []uint
}

const cacheLedger = "wallet"

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
