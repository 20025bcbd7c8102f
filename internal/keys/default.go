package keys

import "github.com/roach88/itemdata/internal/tag"

var builtin = []Def{
	{EntityType, tag.KindString, tag.KindEnd, "Captured entity type id."},
	{FloatingTicks, tag.KindInt, tag.KindEnd, "Ticks the item has spent floating."},
	{LavaRepairPos, tag.KindCompound, tag.KindEnd, "Block position of the lava used for repair."},
	{AbilityCooldowns, tag.KindCompound, tag.KindEnd, "Remaining cooldown ticks keyed by ability."},
	{BoundInventory, tag.KindCompound, tag.KindEnd, "Global position of the bound inventory."},
	{ToolEnabled, tag.KindBool, tag.KindEnd, "Whether the tool is switched on."},
	{BoundGlobalVec3, tag.KindCompound, tag.KindEnd, "Bound precise position."},
	{BoundGlobalPos, tag.KindCompound, tag.KindEnd, "Bound block position with dimension."},
	{LeftClickAbilities, tag.KindList, tag.KindString, "Abilities triggered on left click."},
	{AbilityBindings, tag.KindCompound, tag.KindEnd, "Key bindings per ability."},
	{PocketGenCounter, tag.KindInt, tag.KindEnd, "Remaining burn ticks of the pocket generator."},
	{PocketGenFuelMult, tag.KindInt, tag.KindEnd, "Fuel multiplier of the current burn."},
	{PocketGenMaxBurn, tag.KindInt, tag.KindEnd, "Burn length of the current fuel item."},
	{FuelCanisterLevel, tag.KindInt, tag.KindEnd, "Stored fuel level."},
	{FuelCanisterBurn, tag.KindInt, tag.KindEnd, "Burn speed multiplier."},
	{CopyAreaSettings, tag.KindCompound, tag.KindEnd, "Copied area settings."},
	{CopyOffsetSettings, tag.KindCompound, tag.KindEnd, "Copied offset settings."},
	{CopyFilterSettings, tag.KindCompound, tag.KindEnd, "Copied filter settings."},
	{CopyRedstoneSettings, tag.KindCompound, tag.KindEnd, "Copied redstone settings."},
	{CopiedMachineData, tag.KindCompound, tag.KindEnd, "Machine configuration snapshot."},
	{PortalGunUUID, tag.KindUUID, tag.KindEnd, "Identity of the portal gun."},
	{PortalGunFavorite, tag.KindInt, tag.KindEnd, "Selected favorite slot."},
	{PortalGunFavorites, tag.KindList, tag.KindCompound, "Saved portal destinations."},
	{PortalGunPrevious, tag.KindCompound, tag.KindEnd, "Last portal destination."},
	{PortalGunStayOpen, tag.KindBool, tag.KindEnd, "Whether portals stay open."},
	{FluidContainer, tag.KindCompound, tag.KindEnd, "Stored fluid stack."},
	{ForgeEnergy, tag.KindInt, tag.KindEnd, "Stored energy in FE."},
	{FluidCanisterMode, tag.KindInt, tag.KindEnd, "Canister transfer mode."},
	{StupefyTargets, tag.KindList, tag.KindUUID, "Entities currently stupefied."},
	{ItemStackHandler, tag.KindCompound, tag.KindEnd, "Serialized item inventory."},
	{ToolContents, tag.KindCompound, tag.KindEnd, "Items held inside the tool."},
	{PotionContents, tag.KindCompound, tag.KindEnd, "Stored potion."},
	{PotionAmount, tag.KindInt, tag.KindEnd, "Stored potion amount."},
	{EpicArrow, tag.KindBool, tag.KindEnd, "Whether the next arrow is empowered."},
	{CustomData1, tag.KindCompound, tag.KindEnd, "Free-form data."},
}

// Default returns a registry holding the built-in keys.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range builtin {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}
