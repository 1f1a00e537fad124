package txtype

// Raw tags carried by tx index rows.
const (
	TypeWrapper   = "Wrapper"
	TypeDecrypted = "Decrypted"
)

// TxKind identifies the decoded variant of an inner transaction.
type TxKind int

const (
	Unknown TxKind = iota
	Transfer
	Bond
	RevealPK
	VoteProposal
	BecomeValidator
	InitValidator
	Unbond
	Withdraw
	InitAccount
	UpdateAccount
	ResignSteward
	UpdateStewardCommission
	EthPoolBridge
	Ibc
	ConsensusKeyChange
	CommissionChange
	MetaDataChange
	ClaimRewards
	DeactivateValidator
	ReactivateValidator
	UnjailValidator
	InitProposal
)

// Kinds lists every decoded variant, Unknown excluded.
var Kinds = []TxKind{
	Transfer, Bond, RevealPK, VoteProposal, BecomeValidator, InitValidator,
	Unbond, Withdraw, InitAccount, UpdateAccount, ResignSteward,
	UpdateStewardCommission, EthPoolBridge, Ibc, ConsensusKeyChange,
	CommissionChange, MetaDataChange, ClaimRewards, DeactivateValidator,
	ReactivateValidator, UnjailValidator, InitProposal,
}

var labels = map[TxKind]string{
	Transfer:                "Transfer",
	Bond:                    "Bond",
	RevealPK:                "RevealPK",
	VoteProposal:            "VoteProposal",
	BecomeValidator:         "BecomeValidator",
	InitValidator:           "InitValidator",
	Unbond:                  "Unbond",
	Withdraw:                "Withdraw",
	InitAccount:             "InitAccount",
	UpdateAccount:           "UpdateAccount",
	ResignSteward:           "ResignSteward",
	UpdateStewardCommission: "UpdateStewardCommission",
	EthPoolBridge:           "EthPoolBridge",
	Ibc:                     "Ibc",
	ConsensusKeyChange:      "ConsensusKeyChange",
	CommissionChange:        "CommissionChange",
	MetaDataChange:          "MetaDataChange",
	ClaimRewards:            "ClaimRewards",
	DeactivateValidator:     "DeactivateValidator",
	ReactivateValidator:     "ReactivateValidator",
	UnjailValidator:         "UnjailValidator",
	InitProposal:            "InitProposal",
}

// wasm source file name, minus extension, for each decoded variant
var kindsByName = map[string]TxKind{
	"tx_transfer":                    Transfer,
	"tx_bond":                        Bond,
	"tx_reveal_pk":                   RevealPK,
	"tx_vote_proposal":               VoteProposal,
	"tx_become_validator":            BecomeValidator,
	"tx_init_validator":              InitValidator,
	"tx_unbond":                      Unbond,
	"tx_withdraw":                    Withdraw,
	"tx_init_account":                InitAccount,
	"tx_update_account":              UpdateAccount,
	"tx_resign_steward":              ResignSteward,
	"tx_update_steward_commission":   UpdateStewardCommission,
	"tx_bridge_pool":                 EthPoolBridge,
	"tx_ibc":                         Ibc,
	"tx_change_consensus_key":        ConsensusKeyChange,
	"tx_change_validator_commission": CommissionChange,
	"tx_change_validator_metadata":   MetaDataChange,
	"tx_claim_rewards":               ClaimRewards,
	"tx_deactivate_validator":        DeactivateValidator,
	"tx_reactivate_validator":        ReactivateValidator,
	"tx_unjail_validator":            UnjailValidator,
	"tx_init_proposal":               InitProposal,
}

// Label returns the descriptive string for a decoded variant. Unmapped
// variants, Unknown included, fall back to the generic decrypted label.
func Label(k TxKind) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return TypeDecrypted
}

// KindFromName resolves a wasm source name ("tx_bond") to its variant.
func KindFromName(name string) TxKind {
	if k, ok := kindsByName[name]; ok {
		return k
	}
	return Unknown
}
