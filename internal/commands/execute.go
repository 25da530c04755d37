package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Card     func(CardArgs) (Result, error)
	Done     func(DoneArgs) (Result, error)
	Move     func(MoveArgs) (Result, error)
	Exchange func(AmountArgs) (Result, error)
	Deposit  func(AmountArgs) (Result, error)
	Withdraw func(AmountArgs) (Result, error)
	Payout   func() (Result, error)
	Goal     func(GoalArgs) (Result, error)
	Spend    func(AmountArgs) (Result, error)
	Grant    func(AmountArgs) (Result, error)
	Rate     func(RateArgs) (Result, error)
	Rule     func(RuleArgs) (Result, error)
	Wish     func(WishArgs) (Result, error)
	Diary    func(DiaryArgs) (Result, error)
	Show     func(ShowArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeCard:
		if handlers.Card == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Card(*cmd.Card)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Move(*cmd.Move)
	case TypeExchange, TypeDeposit, TypeWithdraw, TypeSpend, TypeGrant:
		h := map[Type]func(AmountArgs) (Result, error){
			TypeExchange: handlers.Exchange,
			TypeDeposit:  handlers.Deposit,
			TypeWithdraw: handlers.Withdraw,
			TypeSpend:    handlers.Spend,
			TypeGrant:    handlers.Grant,
		}[cmd.Type]
		if h == nil {
			return Result{}, missing(cmd.Type)
		}
		return h(*cmd.Amount)
	case TypePayout:
		if handlers.Payout == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Payout()
	case TypeGoal:
		if handlers.Goal == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Goal(*cmd.Goal)
	case TypeRate:
		if handlers.Rate == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Rate(*cmd.Rate)
	case TypeRule:
		if handlers.Rule == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Rule(*cmd.Rule)
	case TypeWish:
		if handlers.Wish == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Wish(*cmd.Wish)
	case TypeDiary:
		if handlers.Diary == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Diary(*cmd.Diary)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
