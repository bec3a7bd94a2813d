package nav

import "time"

type outcome uint8

const (
	ignored     outcome = iota // event not accepted, keep going
	handled                    // accepted, stamps the cooldown
	handledStop                // accepted, nothing else runs this tick
)

type handler func(c *Controller) outcome

// transitions[screen][event]; nil means the screen does not consume the event.
var transitions [numScreens][numEvents]handler

func init() {
	toMenu := func(c *Controller) outcome {
		c.screen = Menu
		return handled
	}

	transitions[Main][EvOK] = openMenu
	transitions[Main][EvOKLong] = quickZero

	transitions[Menu][EvUp] = menuUp
	transitions[Menu][EvDown] = menuDown
	transitions[Menu][EvOK] = menuSelect
	transitions[Menu][EvBack] = func(c *Controller) outcome {
		c.screen = Main
		return handled
	}

	for _, s := range []Screen{View, ADC} {
		transitions[s][EvOK] = toMenu
		transitions[s][EvOKLong] = toMenu
		transitions[s][EvBack] = toMenu
	}

	transitions[Zero][EvOK] = confirm(func(c *Controller) {
		c.mutate("set zero", c.actions.SetZero(c.sample.Raw))
		c.filter.Reset(c.now)
	})
	transitions[CalMin][EvOK] = confirm(func(c *Controller) {
		c.mutate("cal min", c.actions.SetCalMin(c.sample.ADC))
	})
	transitions[CalMax][EvOK] = confirm(func(c *Controller) {
		c.mutate("cal max", c.actions.SetCalMax(c.sample.ADC))
	})
	transitions[Invert][EvOK] = confirm(func(c *Controller) {
		c.mutate("invert", c.actions.ToggleInvert())
	})
	for _, s := range []Screen{Zero, CalMin, CalMax, Invert} {
		transitions[s][EvBack] = toMenu
	}

	transitions[SetValue][EvOKLong] = cycleStep
	transitions[SetValue][EvUp] = func(c *Controller) outcome {
		c.target = c.step.Apply(c.target, true)
		return handled
	}
	transitions[SetValue][EvDown] = func(c *Controller) outcome {
		c.target = c.step.Apply(c.target, false)
		return handled
	}
	transitions[SetValue][EvOK] = applyValue
	transitions[SetValue][EvBack] = func(c *Controller) outcome {
		c.stepLongAt = time.Time{}
		c.screen = Menu
		return handled
	}
}

func openMenu(c *Controller) outcome {
	c.screen = Menu
	c.menuIdx = 0
	c.menuGuard = true
	return handled
}

func quickZero(c *Controller) outcome {
	if c.now.Sub(c.lastQuickZero) < StepCooldown {
		return ignored
	}
	c.mutate("quick zero", c.actions.SetZero(c.sample.Raw))
	c.filter.Reset(c.now)
	c.lastQuickZero = c.now
	return handledStop
}

func menuUp(c *Controller) outcome {
	if c.menuIdx > 0 {
		c.menuIdx--
	} else {
		c.menuIdx = MenuLen - 1
	}
	return handled
}

func menuDown(c *Controller) outcome {
	if c.menuIdx < MenuLen-1 {
		c.menuIdx++
	} else {
		c.menuIdx = 0
	}
	return handled
}

func menuSelect(c *Controller) outcome {
	next := menuItems[c.menuIdx].screen
	if next == SetValue {
		c.target = c.sample.Shown
		c.step = StepMinute
		c.stepLongAt = time.Time{}
	}
	c.screen = next
	return handled
}

func confirm(action func(c *Controller)) handler {
	return func(c *Controller) outcome {
		action(c)
		c.screen = Menu
		return handled
	}
}

func cycleStep(c *Controller) outcome {
	if c.now.Sub(c.lastStepCycle) < StepCooldown {
		return ignored
	}
	c.step = c.step.Next()
	c.lastStepCycle = c.now
	c.stepLongAt = c.now
	return handledStop
}

func applyValue(c *Controller) outcome {
	if !c.stepLongAt.IsZero() && c.now.Sub(c.stepLongAt) < OKIgnore {
		return ignored
	}
	c.mutate("set value", c.actions.SetValue(c.sample.Raw, c.target))
	c.stepLongAt = time.Time{}
	c.screen = Menu
	return handled
}
