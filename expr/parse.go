package expr

import (
	"fmt"

	u "github.com/araddon/gou"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
)

var (
	// classifies bare words (TRUE, False) that would otherwise be
	// rejected as upper-case identifiers
	defaultClassifier = value.NewClassifier()
	// numbers may carry a sign: "-7" is a literal, never a subtraction
	numberClassifier = value.NewClassifier(value.SignedNumberConverters()...)
)

// ParseFilter parses a filter into a tree. OR binds looser than AND, both
// are left associative and flattened into n-ary BooleanNodes. Any failure
// is a *SyntaxError.
func ParseFilter(filter string) (Node, error) {
	n, err := parseFilter(filter)
	if err != nil {
		u.Debugf("parse %q: %v", filter, err)
		return nil, err
	}
	return n, nil
}

func parseFilter(filter string) (Node, error) {
	toks, err := lex.Tokens(filter)
	if err != nil {
		last := toks[len(toks)-1]
		return nil, &SyntaxError{Filter: filter, Pos: last.Pos, Err: fmt.Errorf("%w %q", err, last.V)}
	}
	p := &parser{filter: filter, tokens: toks}
	if p.cur().T == lex.TokenEOF {
		return nil, p.errorf(ErrEmptyFilter)
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().T != lex.TokenEOF {
		return nil, p.unexpected()
	}
	return n, nil
}

type parser struct {
	filter string
	tokens []lex.Token
	pos    int
}

func (p *parser) cur() lex.Token { return p.tokens[p.pos] }

func (p *parser) peek() lex.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() lex.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(err error) error {
	return &SyntaxError{Filter: p.filter, Pos: p.cur().Pos, Err: err}
}

func (p *parser) unexpected() error {
	tok := p.cur()
	if tok.T == lex.TokenEOF {
		return p.errorf(ErrUnexpectedEnd)
	}
	return p.errorf(fmt.Errorf("%w %s", ErrUnexpectedToken, tok))
}

func (p *parser) isKeyword(word string) bool {
	tok := p.cur()
	return tok.T == lex.TokenIdentity && tok.V == word
}

func (p *parser) parseOr() (Node, error) {
	return p.parseBoolean(lex.OpOr, p.parseAnd)
}

func (p *parser) parseAnd() (Node, error) {
	return p.parseBoolean(lex.OpAnd, p.parseCondition)
}

func (p *parser) parseBoolean(op lex.Operator, operand func() (Node, error)) (Node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	args := []Node{first}
	for p.isKeyword(op.String()) {
		p.next()
		n, err := operand()
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	if len(args) == 1 {
		return first, nil
	}
	return &BooleanNode{Operator: op, Args: args}, nil
}

func (p *parser) parseCondition() (Node, error) {
	lhs, err := p.parseParam()
	if err != nil {
		return nil, err
	}
	tok := p.cur()
	if tok.T != lex.TokenIdentity {
		return nil, p.unexpected()
	}
	op := lex.OperatorFromString(tok.V)
	if op == lex.OpUnknown || op.IsBoolean() {
		return nil, p.errorf(fmt.Errorf("%w: expected operator, got %q", ErrUnexpectedToken, tok.V))
	}
	p.next()
	rhs, err := p.parseParam()
	if err != nil {
		return nil, err
	}
	return NewBinaryNode(op, lhs, rhs), nil
}

func (p *parser) parseParam() (Node, error) {
	tok := p.cur()
	switch tok.T {
	case lex.TokenIdentity:
		if p.peek().T == lex.TokenLeftParenthesis {
			return p.parseFunc()
		}
		return p.parseIdentity()
	case lex.TokenNumber:
		return p.parseLiteral(numberClassifier)
	case lex.TokenString:
		return p.parseLiteral(defaultClassifier)
	case lex.TokenLeftBracket:
		return p.parseCollection()
	case lex.TokenLeftParenthesis:
		return nil, p.errorf(ErrGroupedFilter)
	}
	return nil, p.unexpected()
}

func (p *parser) parseIdentity() (Node, error) {
	tok := p.cur()
	if c := tok.V[0]; c >= 'A' && c <= 'Z' {
		// only keyword literals may start upper case
		v, ok, err := defaultClassifier.Classify(tok.V)
		if err != nil || !ok {
			return nil, p.errorf(fmt.Errorf("%w: identifiers must start lower case: %q", ErrUnexpectedToken, tok.V))
		}
		p.next()
		return &LiteralNode{Text: tok.V, Value: v}, nil
	}
	p.next()
	return NewIdentityNode(tok.V), nil
}

func (p *parser) parseLiteral(c *value.Classifier) (Node, error) {
	tok := p.cur()
	v, ok, err := c.Classify(tok.V)
	if err != nil {
		return nil, p.errorf(err)
	}
	if !ok {
		return nil, p.errorf(fmt.Errorf("%w: malformed literal %q", ErrUnexpectedToken, tok.V))
	}
	p.next()
	return &LiteralNode{Text: tok.V, Value: v}, nil
}

func (p *parser) parseFunc() (Node, error) {
	name := p.next().V
	p.next() // (
	fn := &FuncNode{Name: name, Func: lex.FunctionFromString(name)}
	if p.cur().T == lex.TokenRightParenthesis {
		p.next()
		return fn, nil
	}
	for {
		arg, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, arg)
		switch p.cur().T {
		case lex.TokenComma:
			p.next()
		case lex.TokenRightParenthesis:
			p.next()
			return fn, nil
		default:
			return nil, p.unexpected()
		}
	}
}

func (p *parser) parseCollection() (Node, error) {
	p.next() // [
	arr := &ArrayNode{}
	if p.cur().T == lex.TokenRightBracket {
		p.next()
		return arr, nil
	}
	for {
		if p.cur().T == lex.TokenLeftBracket {
			return nil, p.errorf(fmt.Errorf("%w: nested collection", ErrUnexpectedToken))
		}
		item, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		arr.Args = append(arr.Args, item)
		switch p.cur().T {
		case lex.TokenComma:
			p.next()
		case lex.TokenRightBracket:
			p.next()
			return arr, nil
		default:
			return nil, p.unexpected()
		}
	}
}
