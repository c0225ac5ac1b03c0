package webhook

// Stage is a step of the inbound notification lifecycle. Every request ends
// in Acknowledged or one of the Rejected/ConfigError stages.
type Stage string

const (
	StageReceived          Stage = "received"
	StageGatewayIdentified Stage = "gateway_identified"
	StageSignatureVerified Stage = "signature_verified"
	StageSchemaValidated   Stage = "schema_validated"
	StageEventNormalized   Stage = "event_normalized"
	StageReconciled        Stage = "reconciled"
	StageAcknowledged      Stage = "acknowledged"
	StageRejectedNoSig     Stage = "rejected_no_signature"
	StageRejectedBadSig    Stage = "rejected_bad_signature"
	StageRejectedBadSchema Stage = "rejected_bad_schema"
	StageRejectedBadBody   Stage = "rejected_bad_body"
	StageConfigError       Stage = "config_error"
)

// Terminal reports whether no further stage follows s.
func (s Stage) Terminal() bool {
	switch s {
	case StageAcknowledged, StageRejectedNoSig, StageRejectedBadSig,
		StageRejectedBadSchema, StageRejectedBadBody, StageConfigError:
		return true
	}
	return false
}
