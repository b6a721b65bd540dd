package constants

const (
	ViewData       = "view_data"
	BuyShares      = "buy_shares"
	PayInstallment = "pay_installment"
	DistributeRent = "distribute_rent"
	ManageFunds    = "manage_funds"
	ListProperty   = "list_property"
	SubmitRent     = "submit_rent"
	TogglePause    = "toggle_pause"
)
