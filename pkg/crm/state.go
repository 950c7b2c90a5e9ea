package crm

import "sync"

// State is the full CRM document: one independent sub-state per screen.
// Every mutation goes through Reduce; the document itself is a plain value.
type State struct {
	Roaming      RoamingState      `json:"roaming"`
	PlanChange   PlanChangeState   `json:"planChange"`
	DeviceChange DeviceChangeState `json:"deviceChange"`
	LostStolen   LostStolenState   `json:"lostStolen"`
	Cancellation CancellationState `json:"cancellation"`
	DataAddon    DataAddonState    `json:"dataAddon"`
}

type RoamingState struct {
	CurrentStatus   string `json:"currentStatus"`
	SelectedRegion  string `json:"selectedRegion"`
	SelectedProduct *int   `json:"selectedProduct"`
}

type PlanChangeState struct {
	SelectedPlan *int   `json:"selectedPlan"`
	ChangeStatus string `json:"changeStatus"`
}

type DeviceChangeState struct {
	SelectedOption string `json:"selectedOption"`
	SelectedDevice *int   `json:"selectedDevice"`
	ChangeStatus   string `json:"changeStatus"`
}

type LostStolenState struct {
	DeviceStatus   string `json:"deviceStatus"`
	SelectedOption string `json:"selectedOption"`
}

type CancellationState struct {
	SelectedReason string `json:"selectedReason"`
	CancelStatus   string `json:"cancelStatus"`
}

type AddonState struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type DataAddonState struct {
	Addons        []AddonState `json:"addons"`
	SelectedAddon *int         `json:"selectedAddon"`
}

// Status vocabularies. Each sub-state moves from its initial value to exactly
// one terminal value per session; only RESET reverts it.
const (
	RoamingStatusNone    = "미신청"
	RoamingStatusApplied = "신청완료"

	PlanStatusNone    = "미변경"
	PlanStatusChanged = "변경완료"

	DeviceStatusNone   = "미변경"
	DeviceStatusOpened = "개통완료"

	LostDeviceNormal    = "정상"
	LostDeviceSuspended = "분실정지"

	CancelStatusNone = "미처리"
	CancelStatusDone = "해지완료"
)

// InitialState builds a fresh document, including a private copy of the addon
// list so reducer steps never alias the reference data.
func InitialState() State {
	addons := make([]AddonState, len(DataAddons))
	for i, a := range DataAddons {
		addons[i] = AddonState{Name: a.Name, Active: a.Active}
	}
	return State{
		Roaming:      RoamingState{CurrentStatus: RoamingStatusNone},
		PlanChange:   PlanChangeState{ChangeStatus: PlanStatusNone},
		DeviceChange: DeviceChangeState{ChangeStatus: DeviceStatusNone},
		LostStolen:   LostStolenState{DeviceStatus: LostDeviceNormal},
		Cancellation: CancellationState{CancelStatus: CancelStatusNone},
		DataAddon:    DataAddonState{Addons: addons},
	}
}

// CommandType closed enum of state commands. Adding a screen means adding
// commands here and a branch in Reduce, nothing else.
type CommandType string

const (
	CmdRoamingSelectRegion  CommandType = "ROAMING_SELECT_REGION"
	CmdRoamingSelectProduct CommandType = "ROAMING_SELECT_PRODUCT"
	CmdRoamingApply         CommandType = "ROAMING_APPLY"
	CmdPlanSelect           CommandType = "PLAN_SELECT"
	CmdPlanChange           CommandType = "PLAN_CHANGE"
	CmdDeviceSelectOption   CommandType = "DEVICE_SELECT_OPTION"
	CmdDeviceSelect         CommandType = "DEVICE_SELECT"
	CmdDeviceOpen           CommandType = "DEVICE_OPEN"
	CmdLostSelectOption     CommandType = "LOST_SELECT_OPTION"
	CmdLostSuspend          CommandType = "LOST_SUSPEND"
	CmdCancelSelectReason   CommandType = "CANCEL_SELECT_REASON"
	CmdCancelProcess        CommandType = "CANCEL_PROCESS"
	CmdDataSelectAddon      CommandType = "DATA_SELECT_ADDON"
	CmdDataAddAddon         CommandType = "DATA_ADD_ADDON"
	CmdReset                CommandType = "RESET"
)

// Command targets exactly one sub-state. Only the field matching the type is
// meaningful.
type Command struct {
	Type   CommandType `json:"type"`
	Region string      `json:"region,omitempty"`
	Index  int         `json:"index,omitempty"`
	Option string      `json:"option,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

func intPtr(i int) *int { return &i }

// Reduce is a total function over the closed command enum. Unknown commands
// return the state unchanged; repeated terminal commands are harmless.
func Reduce(state State, cmd Command) State {
	switch cmd.Type {
	case CmdRoamingSelectRegion:
		state.Roaming.SelectedRegion = cmd.Region
	case CmdRoamingSelectProduct:
		state.Roaming.SelectedProduct = intPtr(cmd.Index)
	case CmdRoamingApply:
		state.Roaming.CurrentStatus = RoamingStatusApplied
	case CmdPlanSelect:
		state.PlanChange.SelectedPlan = intPtr(cmd.Index)
	case CmdPlanChange:
		state.PlanChange.ChangeStatus = PlanStatusChanged
	case CmdDeviceSelectOption:
		state.DeviceChange.SelectedOption = cmd.Option
	case CmdDeviceSelect:
		state.DeviceChange.SelectedDevice = intPtr(cmd.Index)
	case CmdDeviceOpen:
		state.DeviceChange.ChangeStatus = DeviceStatusOpened
	case CmdLostSelectOption:
		state.LostStolen.SelectedOption = cmd.Option
	case CmdLostSuspend:
		state.LostStolen.DeviceStatus = LostDeviceSuspended
	case CmdCancelSelectReason:
		state.Cancellation.SelectedReason = cmd.Reason
	case CmdCancelProcess:
		state.Cancellation.CancelStatus = CancelStatusDone
	case CmdDataSelectAddon:
		state.DataAddon.SelectedAddon = intPtr(cmd.Index)
	case CmdDataAddAddon:
		idx := state.DataAddon.SelectedAddon
		if idx == nil {
			return state
		}
		addons := make([]AddonState, len(state.DataAddon.Addons))
		copy(addons, state.DataAddon.Addons)
		if *idx >= 0 && *idx < len(addons) {
			addons[*idx].Active = true
		}
		state.DataAddon.Addons = addons
		state.DataAddon.SelectedAddon = nil
	case CmdReset:
		return InitialState()
	}
	return state
}

// Store owns the document plus the transient highlight pointer. It is the
// single dispatch path shared by the auto-action runner and manual console
// actions.
type Store struct {
	mu          sync.RWMutex
	state       State
	highlighted string
	onChange    func(State)
}

func NewStore() *Store {
	return &Store{state: InitialState()}
}

// SetChangeCallback registers a callback invoked after every dispatch with
// the new document value.
func (s *Store) SetChangeCallback(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Dispatch applies one command through the reducer.
func (s *Store) Dispatch(cmd Command) {
	s.mu.Lock()
	s.state = Reduce(s.state, cmd)
	next := s.state
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}

// Snapshot returns the current document value.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Highlight sets the transient highlighted element id.
func (s *Store) Highlight(elementID string) {
	s.mu.Lock()
	s.highlighted = elementID
	s.mu.Unlock()
}

// ClearHighlight removes the highlight pointer.
func (s *Store) ClearHighlight() {
	s.Highlight("")
}

// Highlighted returns the highlighted element id, empty when none.
func (s *Store) Highlighted() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highlighted
}

// Reset restores the initial document and clears the highlight.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = InitialState()
	s.highlighted = ""
	next := s.state
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}
