package models

import (
	dErrors "namereg/pkg/domain-errors"
)

// Deploy-time fee defaults. Mutable only through the admin surface.
const (
	DefaultBaseFee           uint64 = 10_000_000
	DefaultRenewFee          uint64 = 5_000_000
	DefaultPremiumMultiplier uint64 = 5
	DefaultProtocolFeePct    uint64 = 20
)

// FeeConfig holds the mutable pricing parameters and the running fee total.
//
// TotalFeesCollected is monotonically non-decreasing and incremented only by
// fee distribution, by exactly the fee each paid operation charged.
type FeeConfig struct {
	BaseFee            uint64 `json:"base_fee"`
	RenewFee           uint64 `json:"renew_fee"`
	PremiumMultiplier  uint64 `json:"premium_multiplier"`
	FeeRecipient       string `json:"fee_recipient"`
	ProtocolTreasury   string `json:"protocol_treasury"`
	ProtocolFeePercent uint64 `json:"protocol_fee_percent"`
	TotalFeesCollected uint64 `json:"total_fees_collected"`
}

// DefaultFeeConfig returns the deploy-time configuration. Recipient accounts
// come from deployment config and are filled in by the wiring layer.
func DefaultFeeConfig(feeRecipient, protocolTreasury string) FeeConfig {
	return FeeConfig{
		BaseFee:            DefaultBaseFee,
		RenewFee:           DefaultRenewFee,
		PremiumMultiplier:  DefaultPremiumMultiplier,
		FeeRecipient:       feeRecipient,
		ProtocolTreasury:   protocolTreasury,
		ProtocolFeePercent: DefaultProtocolFeePct,
	}
}

// RegistrationFee prices a registration. Premium labels pay the multiplier
// over the base fee. A zero result means the admin configuration is broken
// badly enough that names would be claimable for free, so it is rejected.
func (c FeeConfig) RegistrationFee(isPremium bool) (uint64, error) {
	fee := c.BaseFee
	if isPremium {
		fee = c.BaseFee * c.PremiumMultiplier
	}
	if fee == 0 {
		return 0, dErrors.New(dErrors.CodeZeroFee, "registration fee resolves to zero")
	}
	return fee, nil
}

// RenewalFee prices a renewal: flat, independent of premium status.
func (c FeeConfig) RenewalFee() (uint64, error) {
	if c.RenewFee == 0 {
		return 0, dErrors.New(dErrors.CodeZeroFee, "renewal fee resolves to zero")
	}
	return c.RenewFee, nil
}

// Split divides a total fee into the protocol share (floored percentage) and
// the recipient remainder. protocol + recipient == total always holds.
func (c FeeConfig) Split(total uint64) (protocol, recipient uint64) {
	protocol = total * c.ProtocolFeePercent / 100
	return protocol, total - protocol
}

// Validate checks the parameter ranges the admin setters enforce one by one.
func (c FeeConfig) Validate() error {
	if c.BaseFee == 0 || c.RenewFee == 0 {
		return dErrors.New(dErrors.CodeZeroFee, "fees must be positive")
	}
	if c.PremiumMultiplier == 0 {
		return dErrors.New(dErrors.CodeZeroFee, "premium multiplier must be positive")
	}
	if c.ProtocolFeePercent > 100 {
		return dErrors.New(dErrors.CodePercentTooHigh, "protocol fee percent must be at most 100")
	}
	return nil
}
