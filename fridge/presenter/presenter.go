// Package presenter turns inventory contents and dialog state into message text and
// inline button layouts. Every function is pure.
package presenter

import (
	"strings"

	"github.com/m3rciful/fridgebot/fridge/inventory"
)

// Button is a single inline button.
type Button struct {
	Label string
	Token Token
}

// View is the content of one outgoing message.
type View struct {
	Text string
	Rows [][]Button
}

// Buttons returns the number of buttons in the layout.
func (v View) Buttons() int {
	n := 0
	for _, row := range v.Rows {
		n += len(row)
	}
	return n
}

const (
	greetingText = "Hey, I'm your fridge, honey! What do you wanna do?"
	menuText     = "You may choose to add an item, change the quantity of a stored item, or end the conversation. To abort, simply type /stop."
	describeText = "Okay, please describe your entry."

	// SavedHeadline heads the action menu after a commit.
	SavedHeadline = "Item saved! What's next?"
	// DeletedHeadline heads the action menu after a removal.
	DeletedHeadline = "Item deleted! What's next?"

	FarewellText  = "Okay, bye."
	StartHintText = "Send /start to begin."
	ButtonsHint   = "Please use the buttons above, or send /stop to end the conversation."
	NoItemsText   = "No items present!"
	NoInfoText    = "No information yet."

	// UnavailableNotice prefixes the action menu when a button no longer fits the conversation.
	UnavailableNotice = "Sorry, that option is not available anymore."
	// SlowDownNotice answers buttons dropped by the rate limiter.
	SlowDownNotice = "Easy there, one tap at a time."
	// ItemGoneNotice prefixes the item list when the chosen item no longer exists.
	ItemGoneNotice = "That item no longer exists."
)

// FullNotice tells the user that loc cannot take another item.
func FullNotice(loc inventory.Location) string {
	return loc.String() + " is full. Please pick another location."
}

// ItemLine renders an item as "label | quantity | expiry".
func ItemLine(it inventory.Item) string {
	return it.Label + " | " + it.Quantity + " | " + it.Expiry
}

// Greeting is sent before the action menu when a conversation opens.
func Greeting() View {
	return View{Text: greetingText}
}

// ActionMenu renders the top-level menu. An empty headline selects the default intro text.
func ActionMenu(headline string) View {
	if headline == "" {
		headline = menuText
	}
	return View{
		Text: headline,
		Rows: [][]Button{
			{
				{Label: "Add item", Token: ActionToken(ActionAdd)},
				{Label: "Change item", Token: ActionToken(ActionChange)},
			},
			{
				{Label: "Show store", Token: ActionToken(ActionShow)},
				{Label: "Done", Token: ActionToken(ActionStop)},
			},
		},
	}
}

// NoticeMenu renders the default action menu prefixed with notice.
func NoticeMenu(notice string) View {
	v := ActionMenu("")
	v.Text = withNotice(notice, v.Text)
	return v
}

// LocationMenu renders the eight-location picker, two locations per row.
func LocationMenu(changing bool, notice string) View {
	text := "Okay, where would you like to place the item?"
	if changing {
		text = "Alright, where is the item you'd like to change?"
	}
	locs := inventory.Locations()
	rows := make([][]Button, 0, len(locs)/2+1)
	for i := 0; i < len(locs); i += 2 {
		row := []Button{{Label: locs[i].String(), Token: LocationToken(locs[i])}}
		if i+1 < len(locs) {
			row = append(row, Button{Label: locs[i+1].String(), Token: LocationToken(locs[i+1])})
		}
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return View{Text: withNotice(notice, text), Rows: rows}
}

// ItemList renders the items of one location as selectable buttons tagged with their index.
func ItemList(items []inventory.Item, notice string) View {
	if len(items) == 0 {
		return View{Text: withNotice(notice, NoItemsText), Rows: [][]Button{backRow()}}
	}
	rows := make([][]Button, 0, len(items)+1)
	for i, it := range items {
		rows = append(rows, []Button{{Label: ItemLine(it), Token: ItemToken(i)}})
	}
	rows = append(rows, backRow())
	return View{Text: withNotice(notice, "Choose your item!"), Rows: rows}
}

// DescribeMenu renders the feature picker. draft may be nil before the first feature is set.
func DescribeMenu(draft *inventory.Item, changing bool) View {
	text := describeText
	if draft != nil {
		text += "\nCurrent Item: \n" + ItemLine(*draft)
	}
	return View{Text: text, Rows: featureRows(changing)}
}

// EditMenu renders the feature picker shown right after an existing item was selected.
func EditMenu(it inventory.Item) View {
	return View{
		Text: "Okay, what would you like to change about:\n" + ItemLine(it),
		Rows: featureRows(true),
	}
}

// FeaturePrompt asks for the value of f and echoes the draft.
func FeaturePrompt(f inventory.Feature, draft inventory.Item) View {
	return View{Text: "Type out the " + f.String() + "!\nCurrent Item: \n" + ItemLine(draft)}
}

// ShowData renders the whole store, one section per location in display order.
func ShowData(store *inventory.Store) View {
	sections := make([]string, 0, 8)
	for _, loc := range inventory.Locations() {
		var b strings.Builder
		b.WriteString(loc.String())
		b.WriteString(":")
		items := store.Items(loc)
		if len(items) == 0 {
			b.WriteString("\n" + NoInfoText)
		}
		for _, it := range items {
			b.WriteString("\n" + ItemLine(it))
		}
		sections = append(sections, b.String())
	}
	return View{Text: strings.Join(sections, "\n\n"), Rows: [][]Button{backRow()}}
}

// Farewell closes the conversation.
func Farewell() View {
	return View{Text: FarewellText}
}

// Hint reminds the user how to continue.
func Hint(text string) View {
	return View{Text: text}
}

func featureRows(changing bool) [][]Button {
	verb := "Add "
	if changing {
		verb = "Change "
	}
	btn := func(f inventory.Feature) Button {
		return Button{Label: verb + strings.ToLower(f.String()), Token: FeatureToken(f)}
	}
	done := Button{Label: "Done", Token: ActionToken(ActionDone)}
	if !changing {
		return [][]Button{
			{btn(inventory.Label), btn(inventory.Expiry)},
			{btn(inventory.Quantity), done},
		}
	}
	return [][]Button{
		{btn(inventory.Label), btn(inventory.Expiry)},
		{btn(inventory.Quantity), {Label: "Remove", Token: ActionToken(ActionRemove)}},
		{done},
	}
}

func backRow() []Button {
	return []Button{{Label: "Back", Token: ActionToken(ActionBack)}}
}

func withNotice(notice, text string) string {
	if notice == "" {
		return text
	}
	return notice + "\n\n" + text
}
