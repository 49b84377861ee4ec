package chain

// AccountId identifies a single (non-multisig) account.
type AccountId [32]byte

// InputKind distinguishes the two ways a transaction can spend value.
type InputKind uint8

const (
	InputAccount InputKind = iota
	InputUtxo
)

// UtxoPointer references a previously produced output by transaction id and
// position within that transaction's output list.
type UtxoPointer struct {
	TransactionId FragmentId
	OutputIndex   uint8
}

// RawInput is one raw, unresolved transaction input as it appears on the
// wire. Account inputs carry their own declared value; utxo inputs must be
// resolved against the indexes accumulated so far to recover a value.
type RawInput struct {
	Kind      InputKind
	Value     Value // meaningful only when Kind == InputAccount
	AccountId AccountId
	Utxo      UtxoPointer
}

// WitnessKind distinguishes the authorization scheme attached to an input.
type WitnessKind uint8

const (
	WitnessAccount WitnessKind = iota
	WitnessMultisig
	WitnessUtxo
)

// Witness authorizes the input at the same position in a transaction.
type Witness struct {
	Kind WitnessKind
}

// RawOutput is a transaction output as it appears on the wire.
type RawOutput struct {
	Address Address
	Value   Value
}

// RawTransaction is the common shape shared by every fragment variant the
// explorer indexes: a transaction body plus one witness per input, in
// matching order.
type RawTransaction struct {
	Inputs    []RawInput
	Outputs   []RawOutput
	Witnesses []Witness
}

// FragmentKind enumerates the block-content variants the node can carry.
// Only the first five are transaction-bearing and relevant to the explorer;
// all others are opaque to it.
type FragmentKind uint8

const (
	FragmentTransaction FragmentKind = iota
	FragmentOwnerStakeDelegation
	FragmentStakeDelegation
	FragmentPoolRegistration
	FragmentPoolManagement
	FragmentInitial
	FragmentOther
)

// ConfigParamKind enumerates the genesis configuration parameters the
// indexing core cares about.
type ConfigParamKind uint8

const (
	ConfigDiscrimination ConfigParamKind = iota
	ConfigConsensusVersion
	ConfigOther
)

// ConfigParam is one entry of a genesis Initial fragment's parameter set.
type ConfigParam struct {
	Kind             ConfigParamKind
	Discrimination   Discrimination
	ConsensusVersion ConsensusVersion
}

// ConfigParams is the full parameter set carried by a genesis Initial
// fragment.
type ConfigParams struct {
	Params []ConfigParam
}

// Fragment is one entry of a block's contents. Exactly one of Tx or Initial
// is populated, depending on Kind.
type Fragment struct {
	Id      FragmentId
	Kind    FragmentKind
	Tx      *RawTransaction
	Initial *ConfigParams
}

// RawBlock is the already-validated block the indexing core receives from
// upstream. Validation, consensus, and networking are out of scope here;
// this type is the contract boundary.
type RawBlock struct {
	Id          BlockId
	Parent      BlockId
	Date        BlockDate
	ChainLength ChainLength
	Contents    []Fragment
}
