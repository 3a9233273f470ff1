package selectors

import (
	"sync"

	"github.com/gnoswap-labs/cssrules/rules"
)

// Source is the selector grammar in the rule-definition language. Rules
// starting with '-' are helpers.
const Source = `
selectors: CAP_ARRAY( selector (',' selector)* );
selector: CAP_OBJECT(
  CAP_NAMED(initial, -compound)
  CAP_NAMED(subsequent, CAP_ARRAY( -step+ ))?
);

relative-selectors: CAP_ARRAY( relative-selector (',' relative-selector)* );
relative-selector: CAP_ARRAY(
  (
    CAP_OBJECT( CAP_NAMED(combinator, CAP_CONST('descendant')) CAP_NAMED(clauses, -compound) )
    -step*
  )
  | -step+
);

-step: CAP_OBJECT( CAP_NAMED(combinator, -combinator) CAP_NAMED(clauses, -compound) );

-combinator: (
  '>' CAP_CONST('child')
  | '+' CAP_CONST('next-sibling')
  | '~' CAP_CONST('subsequent-sibling')
  | '||' CAP_CONST('column')
  | NONZERO_WHITESPACE CAP_CONST('descendant')
);

-compound: CAP_ARRAY(
  (-type | -subclass)
  (ZERO_WHITESPACE -subclass)*
);

-ns-prefix: (CAP(identifier) | '*' CAP_CONST(true)) ZERO_WHITESPACE '|' ZERO_WHITESPACE;
-name-or-any: CAP(identifier) | '*' CAP_CONST(true);

-type: CAP_OBJECT(
  CAP_NAMED(type, CAP_CONST('element'))
  (
    (CAP_NAMED(namespace, -ns-prefix) CAP_NAMED(name, -name-or-any))
    | CAP_NAMED(name, -name-or-any)
  )
);

-subclass: CAP_OBJECT( -id | -class | -attribute | -pseudo );

-id: CAP_NAMED(type, CAP_CONST('id')) CAP_NAMED(id, CAP(hash));

-class: '.' ZERO_WHITESPACE CAP_NAMED(type, CAP_CONST('class')) CAP_NAMED(className, CAP(identifier));

-attribute: SQUARE(
  CAP_NAMED(type, CAP_CONST('attribute'))
  (
    (CAP_NAMED(namespace, -ns-prefix) CAP_NAMED(name, CAP(identifier)))
    | CAP_NAMED(name, CAP(identifier))
  )
  (
    (
      CAP_NAMED(operator, -attr-operator)
      CAP_NAMED(value, CAP(string | identifier))
      CAP_NAMED(caseSensitive, ID(i) CAP_CONST(false) | ID(s) CAP_CONST(true))?
    )
    | CAP_NAMED(operator, CAP_CONST('present'))
  )
);

-attr-operator: (
  (
    (
      '~' CAP_CONST('word-list-contains')
      | '|' CAP_CONST('equals-or-dashed-prefix')
      | '^' CAP_CONST('starts-with')
      | '$' CAP_CONST('ends-with')
      | '*' CAP_CONST('has-substring')
    )
    ZERO_WHITESPACE '='
  )
  | '=' CAP_CONST('equals')
);

-pseudo: ':' ZERO_WHITESPACE (
  (
    ':' ZERO_WHITESPACE
    (
      CAP_NAMED(name, CAP(identifier)) CAP_NAMED(type, CAP_CONST('pseudo-element'))
      | CAP_NAMED(function, CAP_UNIT(call)) CAP_NAMED(type, CAP_CONST('pseudo-element-func'))
    )
  )
  | CAP_NAMED(name, CAP(identifier)) CAP_NAMED(type, CAP_CONST('pseudo-class'))
  | CAP_NAMED(function, CAP_UNIT(call)) CAP_NAMED(type, CAP_CONST('pseudo-class-func'))
);
`

var grammar = sync.OnceValues(func() (*rules.Grammar, error) {
	return rules.Compile(Source, rules.Options{})
})

// Grammar returns the compiled selector grammar. It is compiled once.
func Grammar() (*rules.Grammar, error) {
	return grammar()
}
