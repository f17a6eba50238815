/*
Package domain contains the core data model of the backstack navigation engine.

It defines the navigation stack, the actions that transform it, the registered screen
definitions and the errors the engine reports. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - RouteInstance: One entry of the navigation history (screen key + override params).
  - NavigationState: The ordered stack of RouteInstances plus the index of the visible entry.
  - Action: A closed set of navigation intents (Push, Pop, Reset, Jump, Remove, Replace, PushOrReplace).
  - RouteDefinition: A registered screen template (key, render reference, default params).
  - Scene: What the host should render for the visible entry, including the back-press arming.
*/
package domain
