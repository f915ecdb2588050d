package models

// Source identifies which export format a batch came from.
type Source string

const (
	SourceVenmo  Source = "venmo"
	SourcePayPal Source = "paypal"
)

// Default account labels written in the Account column.
const (
	AccountVenmo  = "Venmo"
	AccountPayPal = "PayPal"
)

// Venmo transaction types.
const (
	VenmoTypePayment = "Payment"
	VenmoTypeCharge  = "Charge"
)

// PayPal transaction types and statuses with special handling.
const (
	PayPalTypeBankDeposit      = "Bank Deposit to PP Account"
	PayPalTypeCardDeposit      = "General Card Deposit"
	PayPalTypePreApprovedBill  = "PreApproved Payment Bill User Payment"
	PayPalTypeUserWithdrawal   = "User Initiated Withdrawal"
	PayPalStatusCompleted      = "Completed"
	PayPalFeeMerchant          = "PayPal"
	PayPalTransferMerchant     = "Transfer"
	PayPalFeeStatementTemplate = "Fee for %s on %s"
)

// Categories produced by the built-in rules.
const (
	CategoryHouseCleaning  = "House cleaning"
	CategoryHouseMaint     = "House Maintenance"
	CategoryChildCare      = "Child Care"
	CategoryInheritance    = "Inheritance maintenance"
	CategoryPayPalTransfer = "Transfer for paypal"
	CategoryCharity        = "Charity"
	CategoryRideShare      = "Taxi & Ride Shares"
	CategoryGas            = "Gas"
	CategoryShopping       = "Shopping"
	CategoryFees           = "Fees"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
