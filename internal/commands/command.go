package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/chorejar/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeCard     Type = "card"
	TypeDone     Type = "done"
	TypeMove     Type = "move"
	TypeExchange Type = "exchange"
	TypeDeposit  Type = "deposit"
	TypeWithdraw Type = "withdraw"
	TypePayout   Type = "payout"
	TypeGoal     Type = "goal"
	TypeSpend    Type = "spend"
	TypeGrant    Type = "grant"
	TypeRate     Type = "rate"
	TypeRule     Type = "rule"
	TypeWish     Type = "wish"
	TypeDiary    Type = "diary"
	TypeShow     Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MaxGrantStars bounds a single parent grant from the palette.
const MaxGrantStars = 1000

type AddArgs struct {
	Text  string
	Stars int
}

type CardArgs struct {
	Text string
}

type DoneArgs struct {
	ID int64
}

type MoveArgs struct {
	ID int64
	To model.Column
}

// AmountArgs carries exchange, deposit, withdraw, spend and grant.
type AmountArgs struct {
	Amount int
	Note   string
}

type GoalArgs struct {
	Amount int
	Name   string
}

type RateArgs struct {
	StarsToMoney  int
	MoneyPerStars int
}

// RuleArgs either adds Text or, with Remove set, deletes the rule at the
// zero-based Index.
type RuleArgs struct {
	Text   string
	Remove bool
	Index  int
}

// WishArgs either adds a wish or, with Remove set, deletes the wish at the
// zero-based Index.
type WishArgs struct {
	Name        string
	Price       *int
	Description string
	Remove      bool
	Index       int
}

type DiaryArgs struct {
	Title   string
	Content string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Card   *CardArgs
	Done   *DoneArgs
	Move   *MoveArgs
	Amount *AmountArgs
	Goal   *GoalArgs
	Rate   *RateArgs
	Rule   *RuleArgs
	Wish   *WishArgs
	Diary  *DiaryArgs
	Show   *ShowArgs
}

var amountLimits = map[Type]int{
	TypeExchange: model.MaxPiggyAmount,
	TypeDeposit:  model.MaxPiggyAmount,
	TypeWithdraw: model.MaxPiggyAmount,
	TypeSpend:    model.MaxPiggyAmount,
	TypeGrant:    MaxGrantStars,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	args := parts[1:]

	if limit, ok := amountLimits[head]; ok {
		return parseAmount(input, head, args, limit)
	}
	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeCard:
		return parseCard(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypePayout:
		return Command{Type: TypePayout, Raw: input}, nil
	case TypeGoal:
		return parseGoal(input, args)
	case TypeRate:
		return parseRate(input, args)
	case TypeRule:
		return parseRule(input, args)
	case TypeWish:
		return parseWish(input, args)
	case TypeDiary:
		return parseDiary(input, raw)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func invalid(format string, a ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

// parseAdd reads "add [+N] text"; N defaults to one star.
func parseAdd(raw string, args []string) (Command, error) {
	stars := 1
	if len(args) > 0 && strings.HasPrefix(args[0], "+") {
		n, err := model.ParseAmount(strings.TrimPrefix(args[0], "+"), 0, 10)
		if err != nil {
			return Command{}, invalid("stars must be a number from 0 to 10")
		}
		stars = n
		args = args[1:]
	}
	text, err := model.NormalizeText(strings.Join(args, " "))
	if err != nil {
		return Command{}, textError("add", err)
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, Stars: stars}}, nil
}

func parseCard(raw string, args []string) (Command, error) {
	text, err := model.NormalizeText(strings.Join(args, " "))
	if err != nil {
		return Command{}, textError("card", err)
	}
	return Command{Type: TypeCard, Raw: raw, Card: &CardArgs{Text: text}}, nil
}

func textError(cmd string, err error) error {
	if errors.Is(err, model.ErrTextTooLong) {
		return invalid("%s text is longer than %d characters", cmd, model.MaxTextLength)
	}
	return invalid("%s requires text", cmd)
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("done requires a task id")
	}
	id, err := model.ParseID(args[0])
	if err != nil {
		return Command{}, invalid("invalid task id: %s", args[0])
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{ID: id}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("move requires a card id and a column")
	}
	id, err := model.ParseID(args[0])
	if err != nil {
		return Command{}, invalid("invalid card id: %s", args[0])
	}
	col, err := model.ParseColumn(args[1])
	if err != nil {
		return Command{}, invalid("column must be todo, doing or done")
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{ID: id, To: col}}, nil
}

func parseAmount(raw string, typ Type, args []string, limit int) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("%s requires an amount", typ)
	}
	amount, err := model.ParseAmount(args[0], 1, limit)
	if err != nil {
		return Command{}, invalid("%s amount must be a whole number from 1 to %d", typ, limit)
	}
	note := strings.TrimSpace(strings.Join(args[1:], " "))
	return Command{Type: typ, Raw: raw, Amount: &AmountArgs{Amount: amount, Note: note}}, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("goal requires an amount")
	}
	amount, err := model.ParseAmount(args[0], 1, model.MaxGoalAmount)
	if err != nil {
		return Command{}, invalid("goal amount must be a whole number from 1 to %d", model.MaxGoalAmount)
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Amount: amount, Name: strings.Join(args[1:], " ")}}, nil
}

func parseRate(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("rate requires stars per bundle and money per bundle")
	}
	stars, err := model.ParseAmount(args[0], 1, 1000)
	if err != nil {
		return Command{}, invalid("stars per bundle must be from 1 to 1000")
	}
	money, err := model.ParseAmount(args[1], 1, model.MaxPiggyAmount)
	if err != nil {
		return Command{}, invalid("money per bundle must be from 1 to %d", model.MaxPiggyAmount)
	}
	return Command{Type: TypeRate, Raw: raw, Rate: &RateArgs{StarsToMoney: stars, MoneyPerStars: money}}, nil
}

// parseRule reads "rule <text>" or "rule rm <n>" with n counted from one.
func parseRule(raw string, args []string) (Command, error) {
	if len(args) == 2 && (strings.EqualFold(args[0], "rm") || strings.EqualFold(args[0], "del")) {
		n, err := model.ParseAmount(args[1], 1, 1_000_000)
		if err != nil {
			return Command{}, invalid("invalid rule number: %s", args[1])
		}
		return Command{Type: TypeRule, Raw: raw, Rule: &RuleArgs{Remove: true, Index: n - 1}}, nil
	}
	text, err := model.NormalizeText(strings.Join(args, " "))
	if err != nil {
		return Command{}, textError("rule", err)
	}
	return Command{Type: TypeRule, Raw: raw, Rule: &RuleArgs{Text: text}}, nil
}

// parseWish reads "wish [+price] name [| description]" or "wish rm <n>"
// with n counted from one.
func parseWish(raw string, args []string) (Command, error) {
	if len(args) == 2 && (strings.EqualFold(args[0], "rm") || strings.EqualFold(args[0], "del")) {
		n, err := model.ParseAmount(args[1], 1, 1_000_000)
		if err != nil {
			return Command{}, invalid("invalid wish number: %s", args[1])
		}
		return Command{Type: TypeWish, Raw: raw, Wish: &WishArgs{Remove: true, Index: n - 1}}, nil
	}
	var price *int
	if len(args) > 0 && strings.HasPrefix(args[0], "+") {
		p, err := model.ParseAmount(strings.TrimPrefix(args[0], "+"), 0, model.MaxWishPrice)
		if err != nil {
			return Command{}, invalid("wish price must be a whole number from 0 to %d", model.MaxWishPrice)
		}
		price = &p
		args = args[1:]
	}
	name, desc, _ := strings.Cut(strings.Join(args, " "), "|")
	clean, err := model.NormalizeText(name)
	if err != nil {
		return Command{}, textError("wish", err)
	}
	return Command{Type: TypeWish, Raw: raw, Wish: &WishArgs{Name: clean, Price: price, Description: strings.TrimSpace(desc)}}, nil
}

// parseDiary reads "diary [title |] text". The text keeps its spacing.
func parseDiary(raw, line string) (Command, error) {
	body := strings.TrimSpace(line[len(TypeDiary):])
	title, content, found := strings.Cut(body, "|")
	if !found {
		title, content = "", body
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Command{}, invalid("diary requires text")
	}
	return Command{Type: TypeDiary, Raw: raw, Diary: &DiaryArgs{Title: strings.TrimSpace(title), Content: content}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("show requires a subject")
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: strings.ToLower(args[0])}}, nil
}
