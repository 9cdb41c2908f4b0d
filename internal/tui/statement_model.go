package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/bytebank/ledgerkit/internal/extract"
	"github.com/bytebank/ledgerkit/internal/ledger"
	"github.com/bytebank/ledgerkit/internal/store"
)

// StatementLoadedMsg is sent when a statement page finished loading.
type StatementLoadedMsg struct {
	State store.TransactionsState
	Err   error
}

// BalanceLoadedMsg is sent when the balance finished loading.
type BalanceLoadedMsg struct {
	State store.BalanceState
	Err   error
}

// StatementModel is the Bubble Tea model for the interactive statement
// browser. It drives the pipeline through the Facade: every page
// navigation dispatches a load and the resulting snapshot arrives as a
// message.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type StatementModel struct {
	state ViewState
	ctx   context.Context

	facade *store.Facade
	params ledger.ListParams
	locale language.Tag

	// Loaded data
	transactions store.TransactionsState
	balance      store.BalanceState

	// Filtered view over the loaded page
	visible []ledger.Transaction

	// Interactive components
	table      table.Model
	textInput  textinput.Model
	selected   int
	showFilter bool

	width  int
	height int

	loadingState *LoadingState

	err error
}

// NewStatementModel creates a statement browser starting on the given
// page parameters.
func NewStatementModel(
	ctx context.Context,
	facade *store.Facade,
	params ledger.ListParams,
	locale language.Tag,
) StatementModel {
	m := StatementModel{
		state:        ViewStateLoading,
		ctx:          ctx,
		facade:       facade,
		params:       params,
		locale:       locale,
		width:        defaultWidth,
		height:       defaultHeight,
		textInput:    newTextInput(),
		loadingState: NewLoadingState(),
	}
	m.table = m.buildTable()
	return m
}

// Init kicks off the spinner and the initial loads.
func (m StatementModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingState.Init(),
		m.loadStatementCmd(m.params),
		m.loadBalanceCmd(),
	)
}

// loadStatementCmd dispatches a statement load through the facade.
func (m StatementModel) loadStatementCmd(params ledger.ListParams) tea.Cmd {
	facade := m.facade
	ctx := m.ctx
	return func() tea.Msg {
		state, err := facade.LoadTransactions(ctx, params)
		return StatementLoadedMsg{State: state, Err: err}
	}
}

// loadBalanceCmd dispatches a balance load through the facade.
func (m StatementModel) loadBalanceCmd() tea.Cmd {
	facade := m.facade
	ctx := m.ctx
	return func() tea.Msg {
		state, err := facade.LoadBalance(ctx)
		return BalanceLoadedMsg{State: state, Err: err}
	}
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m StatementModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildTable()
		return m, nil

	case StatementLoadedMsg:
		return m.handleStatementLoaded(msg)

	case BalanceLoadedMsg:
		m.balance = msg.State
		return m, nil
	}

	if m.state == ViewStateLoading {
		cmd := m.loadingState.Update(msg)
		return m, cmd
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateList, ViewStateExtract:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	default:
		return m, nil
	}
}

func (m StatementModel) handleStatementLoaded(msg StatementLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state = ViewStateError
		m.err = msg.Err
		return m, nil
	}

	m.transactions = msg.State
	if m.state == ViewStateLoading || m.state == ViewStateList {
		m.state = ViewStateList
	}
	m.applyFilter(m.textInput.Value())
	return m, nil
}

func (m StatementModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter(m.textInput.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m StatementModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m.handleListKeypress(keyMsg)
}

func (m StatementModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		if m.state != ViewStateList {
			return m, nil
		}
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.visible) {
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyG:
		if m.state == ViewStateExtract {
			m.state = ViewStateList
		} else {
			m.state = ViewStateExtract
		}
		return m, nil
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	case keyLeft:
		if m.params.Page > 1 {
			m.params.Page--
			return m, m.loadStatementCmd(m.params)
		}
		return m, nil
	case keyRight:
		if m.params.Page < m.totalPages() {
			m.params.Page++
			return m, m.loadStatementCmd(m.params)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m StatementModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			m.state = ViewStateList
			m.table.Focus()
			return m, nil
		}
	}
	return m, nil
}

// totalPages derives the page count from the loaded pagination metadata.
func (m StatementModel) totalPages() int {
	size := m.transactions.PageSize
	if size <= 0 {
		return 1
	}
	pages := (m.transactions.TotalItems + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// applyFilter narrows the visible rows to those whose description
// contains the query, then rebuilds the table.
func (m *StatementModel) applyFilter(filterText string) {
	all := m.transactions.Transactions
	if filterText == "" {
		m.visible = all
	} else {
		query := strings.ToLower(filterText)
		filtered := []ledger.Transaction{}
		for _, tx := range all {
			if strings.Contains(strings.ToLower(tx.Description), query) {
				filtered = append(filtered, tx)
			}
		}
		m.visible = filtered
	}
	m.rebuildTable()
}

func (m *StatementModel) rebuildTable() {
	m.table = m.buildTable()
}

func (m *StatementModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 36},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Attachment", Width: 12},
	}

	rows := make([]table.Row, len(m.visible))
	for i, tx := range m.visible {
		rows[i] = table.Row{
			tx.Date.UTC().Format("2006-01-02"),
			truncateDescription(tx.Description),
			string(tx.Type),
			renderAmount(tx),
			formatAttachmentColumn(tx),
		}
	}

	availableHeight := m.height - summaryHeight - 1
	if availableHeight < minHeight {
		availableHeight = minHeight
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(availableHeight),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// truncateDescription shortens a description for the table column.
func truncateDescription(desc string) string {
	const maxLen = 36
	if len(desc) <= maxLen {
		return desc
	}
	return desc[:maxLen-3] + "..."
}

// renderAmount formats the signed amount with income/expense coloring.
func renderAmount(tx ledger.Transaction) string {
	if tx.IsIncome() {
		return IncomeStyle.Render(fmt.Sprintf("+%.2f", tx.Amount))
	}
	return ExpenseStyle.Render(fmt.Sprintf("-%.2f", tx.Amount))
}

// formatAttachmentColumn keeps the column visually clean when empty.
func formatAttachmentColumn(tx ledger.Transaction) string {
	if !tx.HasAttachment() {
		return "-"
	}
	return tx.Attachment.OriginalName
}

// MonthGroups returns the loaded page bucketed by calendar month, for
// the extract view.
func (m StatementModel) MonthGroups() []extract.MonthGroup {
	return extract.GroupByMonth(m.visible, m.locale)
}
