package game

// recomputeAuras resets every creature to base stats and reapplies all
// continuous modifiers from scratch, so repeated calls never accumulate.
func (t *txn) recomputeAuras() {
	s := t.s

	// Work on plain numbers first; only creatures whose stats change are copied.
	var atk, def [2][CreatureSlots]int
	for side, p := range s.Players {
		for i, c := range p.Field.Creatures {
			if c != nil {
				atk[side][i] = c.Template.ATK
				def[side][i] = c.Template.DEF
			}
		}
	}

	boost := func(side int, match func(*CardInstance) bool, dATK, dDEF int) {
		for i, c := range s.Players[side].Field.Creatures {
			if c != nil && match(c) {
				atk[side][i] += dATK
				def[side][i] += dDEF
			}
		}
	}
	all := func(*CardInstance) bool { return true }

	// field cards affect both sides
	for _, p := range s.Players {
		fc := p.Field.FieldCard
		if fc == nil {
			continue
		}
		for _, eff := range fc.Effects {
			if e, ok := eff.(FieldAura); ok {
				for side := range s.Players {
					boost(side, func(c *CardInstance) bool { return c.Template.Attribute == e.Attribute }, e.ATK, e.DEF)
					boost(side, func(c *CardInstance) bool { return c.Template.Attribute != e.Attribute }, e.OtherATK, e.OtherDEF)
				}
			}
		}
	}

	// creature auras affect allies of the same attribute, the source included
	for side, p := range s.Players {
		for _, src := range p.Field.Creatures {
			if src == nil {
				continue
			}
			for _, eff := range src.Effects {
				if e, ok := eff.(AttributeAura); ok {
					boost(side, func(c *CardInstance) bool { return c.Template.Attribute == e.Attribute }, e.ATK, e.DEF)
				}
			}
		}
	}

	// backrow cards, face-down traps included
	for side, p := range s.Players {
		for _, src := range p.Field.Backrow {
			if src == nil {
				continue
			}
			for _, eff := range src.Effects {
				if e, ok := eff.(BackrowAura); ok {
					target := side
					if e.Opponent {
						target = 1 - side
					}
					boost(target, all, e.ATK, e.DEF)
				}
			}
		}
	}

	for side, p := range s.Players {
		for i, c := range p.Field.Creatures {
			if c == nil {
				continue
			}
			a, d := max(0, atk[side][i]), max(0, def[side][i])
			if c.ATK != a || c.DEF != d {
				c = p.editCreature(i)
				c.ATK, c.DEF = a, d
			}
		}
	}
}
