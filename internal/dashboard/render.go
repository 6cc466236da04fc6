package dashboard

import (
	"fmt"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

var EventHeader = []string{"", "Train", "", "Time", "From", "To"}

func ServerRows(servers []edr.Server) []string {
	rows := make([]string, 0, len(servers))
	for _, server := range servers {
		row := escapeMarkup(fmt.Sprintf("%-6s %s", server.Code, server.Name))
		if !server.Active {
			row += " (inactive)"
		}
		rows = append(rows, row)
	}
	return rows
}

// StationRow is one line of the station list before styling.
type StationRow struct {
	Text       string
	Dispatched bool
}

// StationRows lists prefix and name, followed by the dispatchers' names when
// the station is taken. Unknown steam ids are shown as-is.
func StationRows(stations []edr.Station, playerName func(string) (string, bool)) []StationRow {
	rows := make([]StationRow, 0, len(stations))
	for _, station := range stations {
		text := fmt.Sprintf("%-4s %s", station.Prefix, station.Name)
		if station.Dispatched() {
			names := make([]string, 0, len(station.DispatchedBy))
			for _, id := range station.DispatchedBy {
				if name, ok := playerName(id); ok {
					names = append(names, name)
				} else {
					names = append(names, id)
				}
			}
			text += " - " + strings.Join(names, "/")
		}
		rows = append(rows, StationRow{Text: text, Dispatched: station.Dispatched()})
	}
	return rows
}

// EventRows builds the dispatch table, header first.
func EventRows(events []edr.Event) [][]string {
	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, EventHeader)
	for _, event := range events {
		player := ""
		if event.Player {
			player = "*"
		}
		rows = append(rows, []string{player, event.Train, event.Kind.Tag(), event.Clock(), event.Prev, event.Next})
	}
	return rows
}

func Footer(st *state.State) string {
	if st.RefreshedAt.IsZero() {
		return ""
	}
	return fmt.Sprintf("refreshed %s  snapshot %s", st.RefreshedAt.Format("15:04:05"), st.SnapshotID)
}

// escapeMarkup keeps server and station names from being read as termui
// style markup.
func escapeMarkup(s string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(s)
}

type view struct {
	list   *widgets.List
	table  *widgets.Table
	footer *widgets.Paragraph
}

func newView() *view {
	list := widgets.NewList()
	list.SelectedRowStyle = ui.NewStyle(ui.ColorBlack, ui.ColorYellow)
	list.WrapText = false

	table := widgets.NewTable()
	table.RowSeparator = false
	table.TextAlignment = ui.AlignLeft
	table.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierBold)

	footer := widgets.NewParagraph()
	footer.Border = false

	return &view{list: list, table: table, footer: footer}
}

func (view *view) draw(st *state.State) {
	width, height := ui.TerminalDimensions()
	view.footer.Text = Footer(st)
	view.footer.SetRect(0, height-1, width, height)

	switch st.Step {
	case state.ServerSelection:
		view.list.Title = " Servers "
		view.list.Rows = ServerRows(st.Servers)
		view.list.SelectedRow = st.ServerIndex
		view.list.SetRect(0, 0, width, height-1)
		ui.Render(view.list, view.footer)

	case state.StationSelection:
		view.list.Title = fmt.Sprintf(" %s ", st.SelectedServer)
		rows := StationRows(st.Stations, st.PlayerName)
		view.list.Rows = make([]string, len(rows))
		for i, row := range rows {
			text := escapeMarkup(row.Text)
			if row.Dispatched {
				text = fmt.Sprintf("[%s](mod:bold)", text)
			}
			view.list.Rows[i] = text
		}
		view.list.SelectedRow = st.StationIndex
		view.list.SetRect(0, 0, width, height-1)
		ui.Render(view.list, view.footer)

	case state.Dispatch:
		view.table.Title = st.Title()
		view.table.Rows = EventRows(st.SortedEvents())
		rest := max(width-2-24-5-10, 20)
		view.table.ColumnWidths = []int{2, 24, 5, 10, rest / 2, rest - rest/2}
		view.table.SetRect(0, 0, width, height-1)
		ui.Clear()
		ui.Render(view.table, view.footer)
	}
}
