package factory

import "github.com/automoto/drake/components"

// Interaction groups by collider role
var (
	StaticGroups = components.InteractionGroups{
		Memberships: components.GroupStatic,
		Filter:      components.GroupAll,
	}
	ActorGroups = components.InteractionGroups{
		Memberships: components.GroupActor,
		Filter:      components.GroupStatic | components.GroupActor | components.GroupProjectile | components.GroupTrigger,
	}
	// Bones never touch their own actor's capsule or each other
	RagdollGroups = components.InteractionGroups{
		Memberships: components.GroupRagdoll,
		Filter:      components.GroupStatic | components.GroupProjectile | components.GroupTrigger,
	}
	ProjectileGroups = components.InteractionGroups{
		Memberships: components.GroupProjectile,
		Filter:      components.GroupAll,
	}
	TriggerGroups = components.InteractionGroups{
		Memberships: components.GroupTrigger,
		Filter:      components.GroupActor | components.GroupRagdoll,
	}
)
