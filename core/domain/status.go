package domain

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ProjectStatus Enum
// =============================================================================

// ProjectStatus represents where a project sits in the intake → contract →
// billing lifecycle. Transitions are driven by the pipeline, not the agents.
type ProjectStatus int

const (
	ProjectIntake   ProjectStatus = 0
	ProjectContract ProjectStatus = 1
	ProjectBilling  ProjectStatus = 2
	ProjectDone     ProjectStatus = 3
)

// ValidProjectStatuses returns all valid ProjectStatus values.
func ValidProjectStatuses() []ProjectStatus {
	return []ProjectStatus{
		ProjectIntake,
		ProjectContract,
		ProjectBilling,
		ProjectDone,
	}
}

// IsValid returns true if the status is a recognized value.
func (ps ProjectStatus) IsValid() bool {
	for _, valid := range ValidProjectStatuses() {
		if ps == valid {
			return true
		}
	}
	return false
}

func (ps ProjectStatus) String() string {
	switch ps {
	case ProjectIntake:
		return "Intake"
	case ProjectContract:
		return "Contract"
	case ProjectBilling:
		return "Billing"
	case ProjectDone:
		return "Done"
	default:
		return fmt.Sprintf("project_status(%d)", ps)
	}
}

func ParseProjectStatus(value string) (ProjectStatus, bool) {
	switch value {
	case "Intake":
		return ProjectIntake, true
	case "Contract":
		return ProjectContract, true
	case "Billing":
		return ProjectBilling, true
	case "Done":
		return ProjectDone, true
	default:
		return ProjectStatus(0), false
	}
}

func (ps ProjectStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(ps.String())
}

func (ps *ProjectStatus) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if parsed, ok := ParseProjectStatus(asString); ok {
			*ps = parsed
			return nil
		}
		return fmt.Errorf("invalid project status: %s", asString)
	}

	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*ps = ProjectStatus(asInt)
		return nil
	}

	return fmt.Errorf("invalid project status")
}

// =============================================================================
// ContractStatus Enum
// =============================================================================

// ContractStatus represents the signature lifecycle of a contract.
type ContractStatus int

const (
	ContractDraft             ContractStatus = 0
	ContractSentStatus        ContractStatus = 1
	ContractAwaitingSignature ContractStatus = 2
	ContractSigned            ContractStatus = 3
	ContractBlocked           ContractStatus = 4
)

// ValidContractStatuses returns all valid ContractStatus values.
func ValidContractStatuses() []ContractStatus {
	return []ContractStatus{
		ContractDraft,
		ContractSentStatus,
		ContractAwaitingSignature,
		ContractSigned,
		ContractBlocked,
	}
}

// IsValid returns true if the status is a recognized value.
func (cs ContractStatus) IsValid() bool {
	for _, valid := range ValidContractStatuses() {
		if cs == valid {
			return true
		}
	}
	return false
}

func (cs ContractStatus) String() string {
	switch cs {
	case ContractDraft:
		return "Draft"
	case ContractSentStatus:
		return "Sent"
	case ContractAwaitingSignature:
		return "AwaitingSignature"
	case ContractSigned:
		return "Signed"
	case ContractBlocked:
		return "Blocked"
	default:
		return fmt.Sprintf("contract_status(%d)", cs)
	}
}

func ParseContractStatus(value string) (ContractStatus, bool) {
	switch value {
	case "Draft":
		return ContractDraft, true
	case "Sent":
		return ContractSentStatus, true
	case "AwaitingSignature":
		return ContractAwaitingSignature, true
	case "Signed":
		return ContractSigned, true
	case "Blocked":
		return ContractBlocked, true
	default:
		return ContractStatus(0), false
	}
}

func (cs ContractStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.String())
}

func (cs *ContractStatus) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if parsed, ok := ParseContractStatus(asString); ok {
			*cs = parsed
			return nil
		}
		return fmt.Errorf("invalid contract status: %s", asString)
	}

	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*cs = ContractStatus(asInt)
		return nil
	}

	return fmt.Errorf("invalid contract status")
}

// =============================================================================
// InvoiceStatus Enum
// =============================================================================

// InvoiceStatus represents the payment lifecycle of an invoice.
type InvoiceStatus int

const (
	InvoiceDraft      InvoiceStatus = 0
	InvoiceSentStatus InvoiceStatus = 1
	InvoicePaid       InvoiceStatus = 2
	InvoiceOverdue    InvoiceStatus = 3
	InvoiceFailed     InvoiceStatus = 4
)

// ValidInvoiceStatuses returns all valid InvoiceStatus values.
func ValidInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceDraft,
		InvoiceSentStatus,
		InvoicePaid,
		InvoiceOverdue,
		InvoiceFailed,
	}
}

// IsValid returns true if the status is a recognized value.
func (is InvoiceStatus) IsValid() bool {
	for _, valid := range ValidInvoiceStatuses() {
		if is == valid {
			return true
		}
	}
	return false
}

func (is InvoiceStatus) String() string {
	switch is {
	case InvoiceDraft:
		return "Draft"
	case InvoiceSentStatus:
		return "Sent"
	case InvoicePaid:
		return "Paid"
	case InvoiceOverdue:
		return "Overdue"
	case InvoiceFailed:
		return "Failed"
	default:
		return fmt.Sprintf("invoice_status(%d)", is)
	}
}

func ParseInvoiceStatus(value string) (InvoiceStatus, bool) {
	switch value {
	case "Draft":
		return InvoiceDraft, true
	case "Sent":
		return InvoiceSentStatus, true
	case "Paid":
		return InvoicePaid, true
	case "Overdue":
		return InvoiceOverdue, true
	case "Failed":
		return InvoiceFailed, true
	default:
		return InvoiceStatus(0), false
	}
}

func (is InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(is.String())
}

func (is *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if parsed, ok := ParseInvoiceStatus(asString); ok {
			*is = parsed
			return nil
		}
		return fmt.Errorf("invalid invoice status: %s", asString)
	}

	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*is = InvoiceStatus(asInt)
		return nil
	}

	return fmt.Errorf("invalid invoice status")
}

// =============================================================================
// SignatureProvider Enum
// =============================================================================

// SignatureProvider identifies the external e-signature service a contract
// is routed through.
type SignatureProvider int

const (
	SignatureHelloSign SignatureProvider = 0
	SignatureDocuSign  SignatureProvider = 1
)

func (sp SignatureProvider) String() string {
	switch sp {
	case SignatureHelloSign:
		return "HelloSign"
	case SignatureDocuSign:
		return "DocuSign"
	default:
		return fmt.Sprintf("signature_provider(%d)", sp)
	}
}

func ParseSignatureProvider(value string) (SignatureProvider, bool) {
	switch value {
	case "HelloSign":
		return SignatureHelloSign, true
	case "DocuSign":
		return SignatureDocuSign, true
	default:
		return SignatureProvider(0), false
	}
}

func (sp SignatureProvider) MarshalJSON() ([]byte, error) {
	return json.Marshal(sp.String())
}

func (sp *SignatureProvider) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if parsed, ok := ParseSignatureProvider(asString); ok {
			*sp = parsed
			return nil
		}
		return fmt.Errorf("invalid signature provider: %s", asString)
	}

	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*sp = SignatureProvider(asInt)
		return nil
	}

	return fmt.Errorf("invalid signature provider")
}

// =============================================================================
// EventKind Enum
// =============================================================================

// EventKind classifies entries in the append-only agent event log.
type EventKind int

const (
	EventIntakeCompleted EventKind = 0
	EventIntakeNeedsInfo EventKind = 1
	EventContractSent    EventKind = 2
	EventContractSigned  EventKind = 3
	EventContractBlocked EventKind = 4
	EventInvoiceSent     EventKind = 5
	EventInvoicePaid     EventKind = 6
	EventInvoiceOverdue  EventKind = 7
)

// ValidEventKinds returns all valid EventKind values.
func ValidEventKinds() []EventKind {
	return []EventKind{
		EventIntakeCompleted,
		EventIntakeNeedsInfo,
		EventContractSent,
		EventContractSigned,
		EventContractBlocked,
		EventInvoiceSent,
		EventInvoicePaid,
		EventInvoiceOverdue,
	}
}

// IsValid returns true if the kind is a recognized value.
func (ek EventKind) IsValid() bool {
	for _, valid := range ValidEventKinds() {
		if ek == valid {
			return true
		}
	}
	return false
}

func (ek EventKind) String() string {
	switch ek {
	case EventIntakeCompleted:
		return "Intake.Completed"
	case EventIntakeNeedsInfo:
		return "Intake.NeedsInfo"
	case EventContractSent:
		return "Contract.Sent"
	case EventContractSigned:
		return "Contract.Signed"
	case EventContractBlocked:
		return "Contract.Blocked"
	case EventInvoiceSent:
		return "Invoice.Sent"
	case EventInvoicePaid:
		return "Invoice.Paid"
	case EventInvoiceOverdue:
		return "Invoice.Overdue"
	default:
		return fmt.Sprintf("event_kind(%d)", ek)
	}
}

func ParseEventKind(value string) (EventKind, bool) {
	switch value {
	case "Intake.Completed":
		return EventIntakeCompleted, true
	case "Intake.NeedsInfo":
		return EventIntakeNeedsInfo, true
	case "Contract.Sent":
		return EventContractSent, true
	case "Contract.Signed":
		return EventContractSigned, true
	case "Contract.Blocked":
		return EventContractBlocked, true
	case "Invoice.Sent":
		return EventInvoiceSent, true
	case "Invoice.Paid":
		return EventInvoicePaid, true
	case "Invoice.Overdue":
		return EventInvoiceOverdue, true
	default:
		return EventKind(0), false
	}
}

func (ek EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(ek.String())
}

func (ek *EventKind) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if parsed, ok := ParseEventKind(asString); ok {
			*ek = parsed
			return nil
		}
		return fmt.Errorf("invalid event kind: %s", asString)
	}

	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*ek = EventKind(asInt)
		return nil
	}

	return fmt.Errorf("invalid event kind")
}
