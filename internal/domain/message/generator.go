package message

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator produces mock bank notification text matching the formats the
// parser understands. It stands in for the upstream bank feed during local
// runs and scheduler simulations; a fraction of messages is deliberately
// suspicious so the fraud path gets exercised.
type Generator struct {
	rng            *rand.Rand
	suspiciousRate float64
}

// NewGenerator creates a generator seeded from the given source.
// suspiciousRate is the fraction of messages shaped to trip fraud signals.
func NewGenerator(rng *rand.Rand, suspiciousRate float64) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, suspiciousRate: suspiciousRate}
}

var (
	genMerchants = []string{"Swiggy", "Amazon", "Zomato", "Flipkart", "SIP Investment", "Myntra", "BigBasket", "Spotify"}
	genPeople    = []string{"Rahul Sharma", "Priya Singh", "Amit Kumar", "Neha Gupta", "Vikram Patel"}
	genEmployers = []string{"TCS", "Infosys", "Wipro", "HCL Tech", "ABC Corp"}
	genBanks     = []string{"SBI", "HDFC", "ICICI", "Axis", "Kotak"}
)

// Generate returns one raw notification string.
func (g *Generator) Generate() string {
	refNo := g.rng.Intn(1000000)
	dateStr := time.Now().Format("02 Jan 2006")
	bank := g.pick(genBanks)

	if g.rng.Float64() < g.suspiciousRate {
		return g.suspicious(bank, dateStr, refNo)
	}

	amount := g.rng.Intn(5000) + 100

	switch g.rng.Intn(6) {
	case 0: // UPI payment to a merchant
		return fmt.Sprintf("Rs %d debited from your %s account via UPI to %s on %s. Ref No %d",
			amount, bank, g.pick(genMerchants), dateStr, refNo)
	case 1: // transfer to a person
		channel := g.pick([]string{"NEFT", "IMPS"})
		return fmt.Sprintf("Rs %d sent to %s via %s on %s. Ref No %d",
			amount, g.pick(genPeople), channel, dateStr, refNo)
	case 2: // salary credit
		return fmt.Sprintf("Rs %d credited from %s via NEFT on %s. Ref No %d",
			g.rng.Intn(50000)+20000, g.pick(genEmployers), dateStr, refNo)
	case 3: // money received from a person
		return fmt.Sprintf("Rs %d received from %s via UPI on %s. Ref No %d",
			amount, g.pick(genPeople), dateStr, refNo)
	case 4: // ATM withdrawal
		return fmt.Sprintf("Rs %d withdrawn at %s ATM on %s. Ref No %d",
			(amount/100+1)*100, bank, dateStr, refNo)
	default: // in-store POS purchase
		return fmt.Sprintf("Rs %d debited from your %s account via POS at %s on %s. Ref No %d",
			amount, bank, g.pick(genMerchants), dateStr, refNo)
	}
}

func (g *Generator) suspicious(bank, dateStr string, refNo int) string {
	switch g.rng.Intn(4) {
	case 0: // high amount to an unknown merchant
		return fmt.Sprintf("Rs %d debited from your %s account via UPI to XYZ Pvt Ltd on %s. Ref No %d",
			g.rng.Intn(50000)+15000, bank, dateStr, refNo)
	case 1: // large transfer to an unknown person
		return fmt.Sprintf("Rs %d sent to Unknown Trader via NEFT on %s. Ref No %d",
			g.rng.Intn(80000)+20000, dateStr, refNo)
	case 2: // large ATM withdrawal
		return fmt.Sprintf("Rs %d withdrawn at %s ATM on %s. Ref No %d",
			g.rng.Intn(30000)+10000, bank, dateStr, refNo)
	default: // rapid small charges at an unknown merchant
		return fmt.Sprintf("Rs %d debited from your %s account via UPI to Quick Pay Global on %s. Ref No %d",
			g.rng.Intn(500)+50, bank, dateStr, refNo)
	}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}
